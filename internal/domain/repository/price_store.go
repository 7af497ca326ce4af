package repository

import (
	"context"
	"time"

	"RiskLens/internal/domain/models"
)

// PriceStore provides read-only access to daily bars for risk analytics.
type PriceStore interface {
	GetCloses(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error)
	GetLatestNCloses(ctx context.Context, symbol string, n int) (models.PriceSeries, error)
}
