package model

import "time"

// GatewayRecord is one entry of the gateway key-value table. Document holds
// the whole gateway encoded as JSON.
type GatewayRecord struct {
	GatewayID string    `gorm:"primaryKey;size:255"`
	Document  string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName pins the table name used by the store.
func (GatewayRecord) TableName() string {
	return "gateways"
}
