package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gateway-data-backend/internal/gateway"
	"gateway-data-backend/internal/model"
)

// ErrNotFound is returned by Get when no gateway has the requested ID.
var ErrNotFound = errors.New("gateway not found")

// Store is the key-value view of persisted gateways, keyed by gateway ID.
type Store interface {
	Scan(ctx context.Context) ([]gateway.Gateway, error)
	Get(ctx context.Context, id string) (gateway.Gateway, error)
	Put(ctx context.Context, g gateway.Gateway) error
	Delete(ctx context.Context, id string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Scan returns every gateway ordered by ID.
func (s *gormStore) Scan(ctx context.Context) ([]gateway.Gateway, error) {
	var records []model.GatewayRecord
	if err := s.db.WithContext(ctx).Order("gateway_id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to scan gateways: %w", err)
	}

	gateways := make([]gateway.Gateway, 0, len(records))
	for _, r := range records {
		g, err := decodeRecord(r)
		if err != nil {
			return nil, err
		}
		gateways = append(gateways, g)
	}
	return gateways, nil
}

// Get returns the gateway stored under id, or ErrNotFound.
func (s *gormStore) Get(ctx context.Context, id string) (gateway.Gateway, error) {
	var record model.GatewayRecord
	err := s.db.WithContext(ctx).Where("gateway_id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return gateway.Gateway{}, ErrNotFound
	}
	if err != nil {
		return gateway.Gateway{}, fmt.Errorf("failed to get gateway %q: %w", id, err)
	}
	return decodeRecord(record)
}

// Put writes g under its ID, replacing whatever was stored there.
func (s *gormStore) Put(ctx context.Context, g gateway.Gateway) error {
	doc, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to encode gateway %q: %w", g.ID, err)
	}

	now := time.Now().UTC()
	record := model.GatewayRecord{
		GatewayID: g.ID,
		Document:  string(doc),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "gateway_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to put gateway %q: %w", g.ID, err)
	}
	return nil
}

// Delete removes the gateway stored under id. Deleting a missing ID is not
// an error.
func (s *gormStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("gateway_id = ?", id).Delete(&model.GatewayRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete gateway %q: %w", id, err)
	}
	return nil
}

func decodeRecord(r model.GatewayRecord) (gateway.Gateway, error) {
	var g gateway.Gateway
	if err := json.Unmarshal([]byte(r.Document), &g); err != nil {
		return gateway.Gateway{}, fmt.Errorf("failed to decode gateway %q: %w", r.GatewayID, err)
	}
	// The row key is authoritative.
	g.ID = r.GatewayID
	return g, nil
}
