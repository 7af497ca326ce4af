package risk

import (
	"math"

	"RiskLens/internal/domain/models"
)

// BacktestConfig drives a rolling out-of-sample VaR validation.
type BacktestConfig struct {
	Method     models.VaRMethod
	Confidence float64
	WindowSize int
	Tolerance  float64
	Samples    int
	Seed       int64
}

func (c BacktestConfig) validate(n int) error {
	const op = "risk.Backtest"
	if c.Confidence <= 0 || c.Confidence >= 1 {
		return &InvalidParameterError{Op: op, Param: "confidence", Value: c.Confidence}
	}
	if c.WindowSize < 2 {
		return &InvalidParameterError{Op: op, Param: "windowSize", Value: c.WindowSize}
	}
	if c.Tolerance < 0 {
		return &InvalidParameterError{Op: op, Param: "tolerance", Value: c.Tolerance}
	}
	if n <= c.WindowSize {
		return &InsufficientDataError{Op: op, Need: c.WindowSize + 1, Got: n}
	}
	return nil
}

// Backtest walks the series one day at a time: at each step it estimates
// VaR from the trailing window and checks whether the next realized
// return breached it. The violation rate is compared to the expected
// rate (1-confidence) within the tolerance to produce the verdict.
func Backtest(returns models.ReturnSeries, cfg BacktestConfig) (models.BacktestSummary, []models.BacktestRecord, error) {
	n := returns.Len()
	if err := cfg.validate(n); err != nil {
		return models.BacktestSummary{}, nil, err
	}

	params := VaRParams{Confidence: cfg.Confidence, Samples: cfg.Samples, Seed: cfg.Seed}
	records := make([]models.BacktestRecord, 0, n-cfg.WindowSize)
	violations := 0
	for t := cfg.WindowSize; t < n; t++ {
		window := returns.Values[t-cfg.WindowSize : t]
		res, err := ComputeVaR(cfg.Method, window, params)
		if err != nil {
			return models.BacktestSummary{}, nil, err
		}
		realized := returns.Values[t]
		violated := realized < res.VaR
		if violated {
			violations++
		}
		records = append(records, models.BacktestRecord{
			Date:           returns.Dates[t],
			PredictedVaR:   res.VaR,
			RealizedReturn: realized,
			IsViolation:    violated,
		})
	}

	total := len(records)
	rate := float64(violations) / float64(total)
	expected := 1 - cfg.Confidence
	verdict := models.BacktestFail
	if math.Abs(rate-expected) <= cfg.Tolerance {
		verdict = models.BacktestPass
	}

	summary := models.BacktestSummary{
		Method:            cfg.Method,
		ConfidenceLevel:   cfg.Confidence,
		WindowSize:        cfg.WindowSize,
		TotalObservations: total,
		ViolationCount:    violations,
		ViolationRate:     rate,
		ExpectedRate:      expected,
		Tolerance:         cfg.Tolerance,
		Verdict:           verdict,
	}
	return summary, records, nil
}
