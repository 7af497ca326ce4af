package risk

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"RiskLens/internal/domain/models"
)

// Mean returns the arithmetic mean of a return series.
func Mean(returns []float64) (float64, error) {
	if len(returns) < 2 {
		return 0, &InsufficientDataError{Op: "risk.Mean", Need: 2, Got: len(returns)}
	}
	return stat.Mean(returns, nil), nil
}

// StdDev returns the sample standard deviation (n-1 denominator).
func StdDev(returns []float64) (float64, error) {
	if len(returns) < 2 {
		return 0, &InsufficientDataError{Op: "risk.StdDev", Need: 2, Got: len(returns)}
	}
	return stat.StdDev(returns, nil), nil
}

// Skewness returns the Fisher moment-based skewness estimator.
func Skewness(returns []float64) (float64, error) {
	if len(returns) < 2 {
		return 0, &InsufficientDataError{Op: "risk.Skewness", Need: 2, Got: len(returns)}
	}
	return stat.Skew(returns, nil), nil
}

// Kurtosis returns excess kurtosis (normal distribution = 0).
func Kurtosis(returns []float64) (float64, error) {
	if len(returns) < 2 {
		return 0, &InsufficientDataError{Op: "risk.Kurtosis", Need: 2, Got: len(returns)}
	}
	return stat.ExKurtosis(returns, nil), nil
}

// SharpeRatio annualizes mean excess return over volatility.
func SharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) (float64, error) {
	const op = "risk.SharpeRatio"
	if len(returns) < 2 {
		return 0, &InsufficientDataError{Op: op, Need: 2, Got: len(returns)}
	}
	if periodsPerYear <= 0 {
		return 0, &InvalidParameterError{Op: op, Param: "periodsPerYear", Value: periodsPerYear}
	}
	mean := stat.Mean(returns, nil)
	sd := stat.StdDev(returns, nil)
	if sd == 0 {
		return 0, &InvalidParameterError{Op: op, Param: "stdDev", Value: 0.0}
	}
	excess := mean - riskFreeRate/float64(periodsPerYear)
	return excess / sd * math.Sqrt(float64(periodsPerYear)), nil
}

// SortinoRatio is the Sharpe numerator over downside deviation, where the
// downside target is the per-period risk-free rate. A series with no
// observations below the target has no downside risk; the mathematically
// meaningful limit +Inf is returned rather than an error.
func SortinoRatio(returns []float64, riskFreeRate float64, periodsPerYear int) (float64, error) {
	const op = "risk.SortinoRatio"
	if len(returns) < 2 {
		return 0, &InsufficientDataError{Op: op, Need: 2, Got: len(returns)}
	}
	if periodsPerYear <= 0 {
		return 0, &InvalidParameterError{Op: op, Param: "periodsPerYear", Value: periodsPerYear}
	}
	target := riskFreeRate / float64(periodsPerYear)
	mean := stat.Mean(returns, nil)

	sumSq := 0.0
	n := 0
	for _, r := range returns {
		if r < target {
			d := r - target
			sumSq += d * d
			n++
		}
	}
	if n == 0 {
		return math.Inf(1), nil
	}
	downside := math.Sqrt(sumSq / float64(n))
	if downside == 0 {
		return math.Inf(1), nil
	}
	return (mean - target) / downside * math.Sqrt(float64(periodsPerYear)), nil
}

// MaxDrawdown finds the worst decline from a running peak in a value
// series. Returns the most negative drawdown and the peak/trough indices.
// A monotonically non-decreasing series has drawdown 0.
func MaxDrawdown(values []float64) (float64, int, int, error) {
	const op = "risk.MaxDrawdown"
	if len(values) < 2 {
		return 0, 0, 0, &InsufficientDataError{Op: op, Need: 2, Got: len(values)}
	}

	worst := 0.0
	peakIdx, troughIdx := 0, 0
	runMaxIdx := 0
	runMax := values[0]
	for i, v := range values {
		if v > runMax {
			runMax = v
			runMaxIdx = i
		}
		if runMax <= 0 {
			return 0, 0, 0, &InvalidParameterError{Op: op, Param: "value", Value: runMax}
		}
		dd := (v - runMax) / runMax
		if dd < worst {
			worst = dd
			peakIdx = runMaxIdx
			troughIdx = i
		}
	}
	return worst, peakIdx, troughIdx, nil
}

// Moments assembles the full diagnostic report for a portfolio return
// series and its compounded value series.
func Moments(returns models.ReturnSeries, values []float64, riskFreeRate float64, periodsPerYear int) (models.MomentReport, error) {
	mean, err := Mean(returns.Values)
	if err != nil {
		return models.MomentReport{}, err
	}
	sd, err := StdDev(returns.Values)
	if err != nil {
		return models.MomentReport{}, err
	}
	skew, err := Skewness(returns.Values)
	if err != nil {
		return models.MomentReport{}, err
	}
	kurt, err := Kurtosis(returns.Values)
	if err != nil {
		return models.MomentReport{}, err
	}
	sharpe, err := SharpeRatio(returns.Values, riskFreeRate, periodsPerYear)
	if err != nil {
		return models.MomentReport{}, err
	}
	sortino, err := SortinoRatio(returns.Values, riskFreeRate, periodsPerYear)
	if err != nil {
		return models.MomentReport{}, err
	}
	dd, peak, trough, err := MaxDrawdown(values)
	if err != nil {
		return models.MomentReport{}, err
	}

	report := models.MomentReport{
		Mean:     mean,
		StdDev:   sd,
		Skewness: skew,
		Kurtosis: kurt,
		Sharpe:   sharpe,
		Sortino:  sortino,
		Drawdown: models.Drawdown{MaxDrawdown: dd},
	}
	// The value series has one leading element for the initial investment;
	// index i maps to return date i-1. The initial point has no return of
	// its own, so it carries the first return date.
	if returns.Len() > 0 {
		report.Drawdown.PeakDate = valueDate(returns, peak)
		report.Drawdown.TroughDate = valueDate(returns, trough)
	}
	return report, nil
}

func valueDate(returns models.ReturnSeries, idx int) time.Time {
	if idx <= 0 {
		return returns.Dates[0]
	}
	if idx-1 >= returns.Len() {
		return returns.Dates[returns.Len()-1]
	}
	return returns.Dates[idx-1]
}
