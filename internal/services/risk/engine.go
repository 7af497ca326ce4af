package risk

import (
	"context"
	"time"

	"RiskLens/internal/domain/models"
	domsvc "RiskLens/internal/domain/service"
	"RiskLens/pkg/config"
)

// Engine adapts the pure estimators to the domain service interfaces,
// binding configured defaults for Monte Carlo sampling, seeds, and
// stress windows.
type Engine struct {
	cfg *config.Config
}

func NewEngine(cfg *config.Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) varParams(confidence float64) VaRParams {
	return VaRParams{
		Confidence: confidence,
		Samples:    e.cfg.Risk.MonteCarlo.Samples,
		Seed:       e.cfg.Risk.MonteCarlo.Seed,
	}
}

func (e *Engine) sampler(returns []float64) (Sampler, error) {
	if e.cfg.Risk.MonteCarlo.Sampling == "bootstrap" {
		return NewBootstrapDraws(returns)
	}
	return FitNormal(returns)
}

func (e *Engine) Estimate(ctx context.Context, method models.VaRMethod, returns []float64, confidence float64) (models.VaRResult, error) {
	if method == models.VaRMonteCarlo {
		sampler, err := e.sampler(returns)
		if err != nil {
			return models.VaRResult{}, err
		}
		params := e.varParams(confidence)
		v, cv, err := MonteCarloVaR(sampler, params.Samples, params.Confidence, params.Seed)
		if err != nil {
			return models.VaRResult{}, err
		}
		return models.VaRResult{Method: method, ConfidenceLevel: confidence, VaR: v, CVaR: cv}, nil
	}
	return ComputeVaR(method, returns, e.varParams(confidence))
}

func (e *Engine) EstimateAll(ctx context.Context, returns []float64, confidence float64) (map[models.VaRMethod]models.VaRResult, error) {
	out := make(map[models.VaRMethod]models.VaRResult, 3)
	for _, m := range []models.VaRMethod{models.VaRHistorical, models.VaRParametric, models.VaRMonteCarlo} {
		res, err := e.Estimate(ctx, m, returns, confidence)
		if err != nil {
			return nil, err
		}
		out[m] = res
	}
	return out, nil
}

func (e *Engine) Analyze(ctx context.Context, returns models.ReturnSeries, initialValue float64) (models.MomentReport, error) {
	values, err := ComputePortfolioValue(returns, initialValue)
	if err != nil {
		return models.MomentReport{}, err
	}
	return Moments(returns, values, e.cfg.Risk.RiskFreeRate, e.cfg.Risk.PeriodsPerYear)
}

func (e *Engine) Project(ctx context.Context, returns []float64, initialValue float64, horizonDays, numPaths int) (models.ProjectionResult, error) {
	sampler, err := e.sampler(returns)
	if err != nil {
		return models.ProjectionResult{}, err
	}
	return Project(sampler, ProjectorConfig{
		InitialValue: initialValue,
		HorizonDays:  horizonDays,
		NumPaths:     numPaths,
		Seed:         e.cfg.Risk.MonteCarlo.Seed,
	})
}

func (e *Engine) Run(ctx context.Context, returns models.ReturnSeries, method models.VaRMethod, window int, tolerance float64) (models.BacktestSummary, []models.BacktestRecord, error) {
	return Backtest(returns, BacktestConfig{
		Method:     method,
		Confidence: e.cfg.Risk.Confidence,
		WindowSize: window,
		Tolerance:  tolerance,
		Samples:    e.cfg.Risk.MonteCarlo.Samples,
		Seed:       e.cfg.Risk.MonteCarlo.Seed,
	})
}

func (e *Engine) Decompose(ctx context.Context, assetReturns map[string]models.ReturnSeries, weights models.WeightVector) (models.RiskDecomposition, error) {
	return Decompose(assetReturns, weights)
}

// CrisisService replays the configured stress windows.
type CrisisService struct {
	windows []CrisisWindow
}

func NewCrisisService(cfg *config.Config) *CrisisService {
	windows := make([]CrisisWindow, 0, len(cfg.Risk.CrisisWindows))
	for _, w := range cfg.Risk.CrisisWindows {
		windows = append(windows, CrisisWindow{Name: w.Name, Start: w.Start, End: w.End})
	}
	return &CrisisService{windows: windows}
}

func (s *CrisisService) Analyze(ctx context.Context, returns models.ReturnSeries, referenceVaR float64) ([]models.CrisisReport, error) {
	return AnalyzeCrises(returns, s.windows, referenceVaR)
}

func (s *CrisisService) AnalyzeWindow(ctx context.Context, returns models.ReturnSeries, name string, start, end time.Time, referenceVaR float64) (models.CrisisReport, error) {
	return AnalyzeCrisis(returns, CrisisWindow{Name: name, Start: start, End: end}, referenceVaR)
}

// Ensure the services satisfy the domain interfaces.
var (
	_ domsvc.VaREstimator     = (*Engine)(nil)
	_ domsvc.MomentAnalyzer   = (*Engine)(nil)
	_ domsvc.ForwardProjector = (*Engine)(nil)
	_ domsvc.Backtester       = (*Engine)(nil)
	_ domsvc.Decomposer       = (*Engine)(nil)
	_ domsvc.CrisisAnalyzer   = (*CrisisService)(nil)
)
