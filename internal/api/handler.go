package api

import (
	"go.uber.org/zap"

	"gateway-data-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store  store.Store
	logger *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:  s,
		logger: logger,
	}
}
