package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"RiskLens/internal/domain/models"
	domrepo "RiskLens/internal/domain/repository"
	domsvc "RiskLens/internal/domain/service"
	"RiskLens/internal/services/risk"
	"RiskLens/pkg/config"
)

// RiskAggregator loads portfolio history and runs the risk services
// over it. It is the shared backend for the individual endpoints and
// the full report.
type RiskAggregator struct {
	store     domrepo.PriceStore
	estimator domsvc.VaREstimator
	moments   domsvc.MomentAnalyzer
	projector domsvc.ForwardProjector
	backtest  domsvc.Backtester
	decompose domsvc.Decomposer
	crisis    domsvc.CrisisAnalyzer
	weights   models.WeightVector
	initial   float64
	cfg       *config.Config
}

func NewRiskAggregator(
	store domrepo.PriceStore,
	estimator domsvc.VaREstimator,
	moments domsvc.MomentAnalyzer,
	projector domsvc.ForwardProjector,
	backtest domsvc.Backtester,
	decompose domsvc.Decomposer,
	crisis domsvc.CrisisAnalyzer,
	cfg *config.Config,
) *RiskAggregator {
	return &RiskAggregator{
		store:     store,
		estimator: estimator,
		moments:   moments,
		projector: projector,
		backtest:  backtest,
		decompose: decompose,
		crisis:    crisis,
		weights:   models.WeightVector(cfg.Portfolio.Weights),
		initial:   cfg.Portfolio.InitialInvestment,
		cfg:       cfg,
	}
}

// Symbols returns the portfolio symbols in deterministic order.
func (a *RiskAggregator) Symbols() []string {
	syms := make([]string, 0, len(a.weights))
	for s := range a.weights {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	return syms
}

// Weights returns the configured portfolio weights.
func (a *RiskAggregator) Weights() models.WeightVector { return a.weights }

// InitialInvestment returns the configured starting capital.
func (a *RiskAggregator) InitialInvestment() float64 { return a.initial }

// LoadReturns fetches the trailing close history for every holding
// concurrently and aggregates per-asset returns into the portfolio
// series.
func (a *RiskAggregator) LoadReturns(ctx context.Context, lookback int) (map[string]models.ReturnSeries, models.ReturnSeries, error) {
	if lookback <= 0 {
		lookback = domrepo.DefaultLookback().TradingDays()
	}
	symbols := a.Symbols()

	type item struct {
		symbol string
		series models.PriceSeries
		err    error
	}
	ch := make(chan item, len(symbols))
	var wg sync.WaitGroup
	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			// one extra close so lookback returns survive differencing
			s, err := a.store.GetLatestNCloses(ctx, symbol, lookback+1)
			ch <- item{symbol: symbol, series: s, err: err}
		}(symbol)
	}
	go func() { wg.Wait(); close(ch) }()

	prices := make(map[string]models.PriceSeries, len(symbols))
	for it := range ch {
		if it.err != nil {
			return nil, models.ReturnSeries{}, fmt.Errorf("load %s: %w", it.symbol, it.err)
		}
		prices[it.symbol] = it.series
	}

	assetReturns := make(map[string]models.ReturnSeries, len(symbols))
	for symbol, series := range prices {
		rs, err := risk.ComputeReturns(series)
		if err != nil {
			return nil, models.ReturnSeries{}, err
		}
		assetReturns[symbol] = rs
	}
	portfolio, err := risk.AggregatePortfolioReturns(assetReturns, a.weights)
	if err != nil {
		return nil, models.ReturnSeries{}, err
	}
	return assetReturns, portfolio, nil
}

// VaR estimates VaR/CVaR for one method over the trailing history.
func (a *RiskAggregator) VaR(ctx context.Context, method models.VaRMethod, confidence float64, lookback int) (models.VaRResult, error) {
	if confidence == 0 {
		confidence = a.cfg.Risk.Confidence
	}
	_, portfolio, err := a.LoadReturns(ctx, lookback)
	if err != nil {
		return models.VaRResult{}, err
	}
	return a.estimator.Estimate(ctx, method, portfolio.Values, confidence)
}

// AllVaR estimates VaR/CVaR under every method.
func (a *RiskAggregator) AllVaR(ctx context.Context, confidence float64, lookback int) (map[models.VaRMethod]models.VaRResult, error) {
	if confidence == 0 {
		confidence = a.cfg.Risk.Confidence
	}
	_, portfolio, err := a.LoadReturns(ctx, lookback)
	if err != nil {
		return nil, err
	}
	return a.estimator.EstimateAll(ctx, portfolio.Values, confidence)
}

// Moments produces distribution diagnostics for the portfolio.
func (a *RiskAggregator) Moments(ctx context.Context, lookback int) (models.MomentReport, error) {
	_, portfolio, err := a.LoadReturns(ctx, lookback)
	if err != nil {
		return models.MomentReport{}, err
	}
	return a.moments.Analyze(ctx, portfolio, a.initial)
}

// Projection simulates forward portfolio values.
func (a *RiskAggregator) Projection(ctx context.Context, horizonDays, numPaths, lookback int) (models.ProjectionResult, error) {
	if horizonDays <= 0 {
		horizonDays = a.cfg.Risk.Projection.HorizonDays
	}
	if numPaths <= 0 {
		numPaths = a.cfg.Risk.Projection.NumPaths
	}
	_, portfolio, err := a.LoadReturns(ctx, lookback)
	if err != nil {
		return models.ProjectionResult{}, err
	}
	return a.projector.Project(ctx, portfolio.Values, a.initial, horizonDays, numPaths)
}

// Decomposition attributes portfolio risk to holdings.
func (a *RiskAggregator) Decomposition(ctx context.Context, lookback int) (models.RiskDecomposition, error) {
	assetReturns, _, err := a.LoadReturns(ctx, lookback)
	if err != nil {
		return models.RiskDecomposition{}, err
	}
	return a.decompose.Decompose(ctx, assetReturns, a.weights)
}

// Crises replays the configured stress windows against the full
// stored history, using the historical VaR of the recent period as
// the reference threshold.
func (a *RiskAggregator) Crises(ctx context.Context, name string) ([]models.CrisisReport, error) {
	// crisis windows can reach years back; load the longest lookback
	lookback := domrepo.LB5Y.TradingDays()
	_, portfolio, err := a.LoadReturns(ctx, lookback)
	if err != nil {
		return nil, err
	}
	ref, err := a.estimator.Estimate(ctx, models.VaRHistorical, portfolio.Values, a.cfg.Risk.Confidence)
	if err != nil {
		return nil, err
	}
	reports, err := a.crisis.Analyze(ctx, portfolio, ref.VaR)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return reports, nil
	}
	for _, r := range reports {
		if r.Name == name {
			return []models.CrisisReport{r}, nil
		}
	}
	return nil, fmt.Errorf("crisis window %q not found in history", name)
}

// CrisisWindow replays a single ad-hoc window supplied by the caller.
func (a *RiskAggregator) CrisisWindow(ctx context.Context, name string, from, to time.Time) (models.CrisisReport, error) {
	if name == "" {
		name = "custom"
	}
	lookback := domrepo.LB5Y.TradingDays()
	_, portfolio, err := a.LoadReturns(ctx, lookback)
	if err != nil {
		return models.CrisisReport{}, err
	}
	ref, err := a.estimator.Estimate(ctx, models.VaRHistorical, portfolio.Values, a.cfg.Risk.Confidence)
	if err != nil {
		return models.CrisisReport{}, err
	}
	return a.crisis.AnalyzeWindow(ctx, portfolio, name, from, to, ref.VaR)
}

// Backtest runs a rolling VaR validation synchronously.
func (a *RiskAggregator) Backtest(ctx context.Context, method models.VaRMethod, window int, tolerance float64) (models.BacktestSummary, []models.BacktestRecord, error) {
	if window <= 0 {
		window = a.cfg.Risk.Backtest.Window
	}
	if tolerance <= 0 {
		tolerance = a.cfg.Risk.Backtest.Tolerance
	}
	// need meaningfully more history than the window itself
	lookback := window * 2
	if min := domrepo.DefaultLookback().TradingDays(); lookback < min {
		lookback = min
	}
	_, portfolio, err := a.LoadReturns(ctx, lookback)
	if err != nil {
		return models.BacktestSummary{}, nil, err
	}
	return a.backtest.Run(ctx, portfolio, method, window, tolerance)
}
