package repository

import (
	"context"
	"time"

	"RiskLens/internal/domain/models"
)

type BarSource interface {
	FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error)
}

type BarPublisher interface {
	PublishBar(ctx context.Context, b *models.PriceBar) error
	PublishBarBatch(ctx context.Context, bars []models.PriceBar) error
	Close() error
}

type Publisher interface {
	PublishReport(ctx context.Context, r *models.RiskReport) error
	PublishBacktest(ctx context.Context, s *models.BacktestSummary) error
	Close() error
}

type Storage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StoreBar(ctx context.Context, b *models.PriceBar) error
	StoreBarBatch(ctx context.Context, bars []models.PriceBar) error
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordBarStored(backend, symbol string)
	RecordReportBuilt(portfolio string)
	RecordError(kind string)
	RecordVaR(method, portfolio string, value float64)
	RecordLatency(op string, seconds float64)
}
