package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"RiskLens/internal/domain/models"
	domrepo "RiskLens/internal/domain/repository"
	icache "RiskLens/internal/service/cache"
)

// RiskReportUseCase assembles the full risk report, fanning the
// independent computations out in parallel.
type RiskReportUseCase struct {
	agg       *RiskAggregator
	cache     icache.BytesCache
	cacheTTL  time.Duration
	publisher domrepo.Publisher
	metrics   domrepo.Metrics
	portfolio string
	timeout   time.Duration
}

func NewRiskReportUseCase(agg *RiskAggregator, cache icache.BytesCache, cacheTTL time.Duration, publisher domrepo.Publisher, metrics domrepo.Metrics) *RiskReportUseCase {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &RiskReportUseCase{
		agg:       agg,
		cache:     cache,
		cacheTTL:  cacheTTL,
		publisher: publisher,
		metrics:   metrics,
		portfolio: "default",
		timeout:   30 * time.Second,
	}
}

type GetReportParams struct {
	Confidence float64
	Lookback   int
	Refresh    bool
}

// cacheKey folds the report parameters and weights into a stable key.
func (uc *RiskReportUseCase) cacheKey(p GetReportParams) string {
	h := fnv.New64a()
	syms := uc.agg.Symbols()
	for _, s := range syms {
		fmt.Fprintf(h, "%s=%.6f;", s, uc.agg.Weights()[s])
	}
	fmt.Fprintf(h, "c=%.4f;lb=%d", p.Confidence, p.Lookback)
	return fmt.Sprintf("report:%x", h.Sum64())
}

func (uc *RiskReportUseCase) GetReport(ctx context.Context, p GetReportParams) (*models.RiskReport, error) {
	if p.Confidence == 0 {
		p.Confidence = uc.agg.cfg.Risk.Confidence
	}
	if p.Lookback <= 0 {
		p.Lookback = domrepo.DefaultLookback().TradingDays()
	}

	key := uc.cacheKey(p)
	if !p.Refresh && uc.cache != nil {
		if b, ok, err := uc.cache.GetBytes(key); err == nil && ok {
			var cached models.RiskReport
			if err := json.Unmarshal(b, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	start := time.Now()
	assetReturns, portfolio, err := uc.agg.LoadReturns(ctx, p.Lookback)
	if err != nil {
		uc.metrics.RecordError("report_load")
		return nil, err
	}

	report := &models.RiskReport{
		Portfolio:         uc.portfolio,
		GeneratedAt:       time.Now().UTC(),
		Symbols:           uc.agg.Symbols(),
		Weights:           uc.agg.Weights(),
		InitialInvestment: uc.agg.InitialInvestment(),
		ConfidenceLevel:   p.Confidence,
		Observations:      portfolio.Len(),
	}

	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 5)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.agg.estimator.EstimateAll(ctx, portfolio.Values, p.Confidence)
		ch <- item{"var", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.agg.moments.Analyze(ctx, portfolio, uc.agg.InitialInvestment())
		ch <- item{"moments", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.agg.decompose.Decompose(ctx, assetReturns, uc.agg.Weights())
		ch <- item{"decomposition", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.agg.projector.Project(ctx, portfolio.Values, uc.agg.InitialInvestment(),
			uc.agg.cfg.Risk.Projection.HorizonDays, uc.agg.cfg.Risk.Projection.NumPaths)
		ch <- item{"projection", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		hist, err := uc.agg.estimator.Estimate(ctx, models.VaRHistorical, portfolio.Values, p.Confidence)
		if err != nil {
			ch <- item{"crises", nil, err}
			return
		}
		v, err := uc.agg.crisis.Analyze(ctx, portfolio, hist.VaR)
		ch <- item{"crises", v, err}
	}()

	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			uc.metrics.RecordError("report_" + it.name)
			return nil, fmt.Errorf("%s: %w", it.name, it.err)
		}
		switch it.name {
		case "var":
			byMethod := it.val.(map[models.VaRMethod]models.VaRResult)
			methods := make([]models.VaRMethod, 0, len(byMethod))
			for m := range byMethod {
				methods = append(methods, m)
			}
			sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })
			for _, m := range methods {
				res := byMethod[m]
				report.VaR = append(report.VaR, res)
				uc.metrics.RecordVaR(string(m), uc.portfolio, res.VaR)
			}
		case "moments":
			report.Moments = it.val.(models.MomentReport)
		case "decomposition":
			report.Decomposition = it.val.(models.RiskDecomposition)
		case "projection":
			report.Projection = it.val.(models.ProjectionResult)
		case "crises":
			report.Crises = it.val.([]models.CrisisReport)
		}
	}

	uc.metrics.RecordReportBuilt(uc.portfolio)
	uc.metrics.RecordLatency("report_build", time.Since(start).Seconds())

	if uc.cache != nil {
		if b, err := json.Marshal(report); err == nil {
			_ = uc.cache.SetBytes(key, b, uc.cacheTTL)
		}
	}
	if uc.publisher != nil {
		if err := uc.publisher.PublishReport(ctx, report); err != nil {
			uc.metrics.RecordError("report_publish")
		}
	}
	return report, nil
}
