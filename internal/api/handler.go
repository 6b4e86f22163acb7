package api

import (
	"log/slog"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"energy-cost-backend/internal/appliance"
	"energy-cost-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	registry *appliance.Registry
	prefs    *store.Preferences
	db       *gorm.DB // nil when storage has no database; subscriptions are then unavailable
	webpush  *webpush.Options
	logger   *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(registry *appliance.Registry, prefs *store.Preferences, db *gorm.DB, webpushOptions *webpush.Options, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registry: registry,
		prefs:    prefs,
		db:       db,
		webpush:  webpushOptions,
		logger:   logger,
	}
}
