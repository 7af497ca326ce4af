package service

import (
	"context"
	"time"

	"RiskLens/internal/domain/models"
)

// VaREstimator computes Value-at-Risk and Expected Shortfall for a
// portfolio return series under a given method.
type VaREstimator interface {
	Estimate(ctx context.Context, method models.VaRMethod, returns []float64, confidence float64) (models.VaRResult, error)
	EstimateAll(ctx context.Context, returns []float64, confidence float64) (map[models.VaRMethod]models.VaRResult, error)
}

// MomentAnalyzer produces distribution diagnostics for a return series.
type MomentAnalyzer interface {
	Analyze(ctx context.Context, returns models.ReturnSeries, initialValue float64) (models.MomentReport, error)
}

// ForwardProjector simulates future portfolio values.
type ForwardProjector interface {
	Project(ctx context.Context, returns []float64, initialValue float64, horizonDays, numPaths int) (models.ProjectionResult, error)
}

// Backtester validates a VaR method against realized history.
type Backtester interface {
	Run(ctx context.Context, returns models.ReturnSeries, method models.VaRMethod, window int, tolerance float64) (models.BacktestSummary, []models.BacktestRecord, error)
}

// Decomposer attributes portfolio risk to individual holdings.
type Decomposer interface {
	Decompose(ctx context.Context, assetReturns map[string]models.ReturnSeries, weights models.WeightVector) (models.RiskDecomposition, error)
}

// CrisisAnalyzer replays configured stress windows over the history.
// AnalyzeWindow runs a single ad-hoc window instead of the configured set.
type CrisisAnalyzer interface {
	Analyze(ctx context.Context, returns models.ReturnSeries, referenceVaR float64) ([]models.CrisisReport, error)
	AnalyzeWindow(ctx context.Context, returns models.ReturnSeries, name string, start, end time.Time, referenceVaR float64) (models.CrisisReport, error)
}
