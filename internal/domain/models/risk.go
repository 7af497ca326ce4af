package models

import (
	"encoding/json"
	"math"
	"time"
)

// VaRMethod identifies the estimation methodology behind a VaRResult.
type VaRMethod string

const (
	VaRHistorical VaRMethod = "historical"
	VaRParametric VaRMethod = "parametric"
	VaRMonteCarlo VaRMethod = "monte_carlo"
)

// IsValidVaRMethod returns true if m is a supported method.
func IsValidVaRMethod(m VaRMethod) bool {
	switch m {
	case VaRHistorical, VaRParametric, VaRMonteCarlo:
		return true
	default:
		return false
	}
}

// NormalizeVaRMethod converts a raw string to a valid method (or historical).
func NormalizeVaRMethod(s string) VaRMethod {
	m := VaRMethod(s)
	if IsValidVaRMethod(m) {
		return m
	}
	return VaRHistorical
}

// PricePoint is one daily close observation.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries holds the ordered daily closes for one instrument.
// Dates are strictly increasing; the series is never mutated after load.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

// ReturnSeries holds ordered simple returns with their observation dates.
// Dates and Values always have equal length; the series is derived from a
// PriceSeries (one element shorter) and frozen after construction.
type ReturnSeries struct {
	Dates  []time.Time
	Values []float64
}

// Len returns the number of return observations.
func (r ReturnSeries) Len() int { return len(r.Values) }

// WeightVector maps instrument symbol to its portfolio weight.
// Weights are non-negative and sum to 1.0 (1e-9 tolerance); fixed for the
// analysis horizon, no rebalancing modeled.
type WeightVector map[string]float64

// Sum returns the total weight.
func (w WeightVector) Sum() float64 {
	s := 0.0
	for _, v := range w {
		s += v
	}
	return s
}

// VaRResult is a VaR/CVaR estimate in return space: negative values are
// losses; multiply by portfolio value for a currency amount.
type VaRResult struct {
	Method          VaRMethod `json:"method"`
	ConfidenceLevel float64   `json:"confidence_level"`
	VaR             float64   `json:"var"`
	CVaR            float64   `json:"cvar"`
}

// BacktestVerdict classifies a backtest run.
type BacktestVerdict string

const (
	BacktestPass BacktestVerdict = "pass"
	BacktestFail BacktestVerdict = "fail"
)

// BacktestRecord is one day of the rolling backtest, outside the initial
// estimation window.
type BacktestRecord struct {
	Date           time.Time `json:"date"`
	PredictedVaR   float64   `json:"predicted_var"`
	RealizedReturn float64   `json:"realized_return"`
	IsViolation    bool      `json:"is_violation"`
}

// BacktestSummary aggregates a full backtest run.
type BacktestSummary struct {
	Method            VaRMethod       `json:"method"`
	ConfidenceLevel   float64         `json:"confidence_level"`
	WindowSize        int             `json:"window_size"`
	TotalObservations int             `json:"total_observations"`
	ViolationCount    int             `json:"violation_count"`
	ViolationRate     float64         `json:"violation_rate"`
	ExpectedRate      float64         `json:"expected_rate"`
	Tolerance         float64         `json:"tolerance"`
	Verdict           BacktestVerdict `json:"verdict"`
}

// RiskContribution is a single instrument's share of portfolio risk.
type RiskContribution struct {
	Weight    float64 `json:"weight"`
	Marginal  float64 `json:"marginal_contribution"`
	Component float64 `json:"component_contribution"`
}

// CorrelationMatrix is the pairwise correlation of instrument returns.
// Matrix[i][j] corresponds to Symbols[i] vs Symbols[j]; diagonal is 1.
type CorrelationMatrix struct {
	Symbols     []string    `json:"symbols"`
	Matrix      [][]float64 `json:"matrix"`
	AverageCorr float64     `json:"average_correlation"`
}

// RiskDecomposition splits total portfolio volatility into per-instrument
// contributions. Component contributions sum to PortfolioVolatility.
type RiskDecomposition struct {
	PortfolioVolatility float64                     `json:"portfolio_volatility"`
	Contributions       map[string]RiskContribution `json:"contributions"`
	Correlations        CorrelationMatrix           `json:"correlations"`
}

// Drawdown is the worst peak-to-trough decline of a value series.
type Drawdown struct {
	MaxDrawdown float64   `json:"max_drawdown"`
	PeakDate    time.Time `json:"peak_date"`
	TroughDate  time.Time `json:"trough_date"`
}

// MomentReport carries distribution diagnostics for a return series.
// Sortino is +Inf when the series has no downside observations; that is a
// documented sentinel, not an error.
type MomentReport struct {
	Mean     float64  `json:"mean"`
	StdDev   float64  `json:"std_dev"`
	Skewness float64  `json:"skewness"`
	Kurtosis float64  `json:"kurtosis"` // excess kurtosis, normal = 0
	Sharpe   float64  `json:"sharpe_ratio"`
	Sortino  float64  `json:"sortino_ratio"`
	Drawdown Drawdown `json:"drawdown"`
}

// momentReportJSON mirrors MomentReport with nullable ratios so non-finite
// values encode as null instead of failing in encoding/json.
type momentReportJSON struct {
	Mean     float64  `json:"mean"`
	StdDev   float64  `json:"std_dev"`
	Skewness float64  `json:"skewness"`
	Kurtosis float64  `json:"kurtosis"`
	Sharpe   *float64 `json:"sharpe_ratio"`
	Sortino  *float64 `json:"sortino_ratio"`
	Drawdown Drawdown `json:"drawdown"`
}

func finitePtr(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// MarshalJSON encodes non-finite Sharpe and Sortino values as null.
func (m MomentReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(momentReportJSON{
		Mean:     m.Mean,
		StdDev:   m.StdDev,
		Skewness: m.Skewness,
		Kurtosis: m.Kurtosis,
		Sharpe:   finitePtr(m.Sharpe),
		Sortino:  finitePtr(m.Sortino),
		Drawdown: m.Drawdown,
	})
}

// UnmarshalJSON restores the +Inf Sortino sentinel from a null ratio, so a
// report cached as JSON round-trips without losing the no-downside marker.
func (m *MomentReport) UnmarshalJSON(b []byte) error {
	var raw momentReportJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	m.Mean = raw.Mean
	m.StdDev = raw.StdDev
	m.Skewness = raw.Skewness
	m.Kurtosis = raw.Kurtosis
	m.Drawdown = raw.Drawdown
	if raw.Sharpe != nil {
		m.Sharpe = *raw.Sharpe
	} else {
		m.Sharpe = math.NaN()
	}
	if raw.Sortino != nil {
		m.Sortino = *raw.Sortino
	} else {
		m.Sortino = math.Inf(1)
	}
	return nil
}

// ProjectionResult summarizes a Monte Carlo forward simulation of the
// portfolio value. The per-day slices have HorizonDays+1 entries, index 0
// being the initial value.
type ProjectionResult struct {
	InitialValue float64   `json:"initial_value"`
	HorizonDays  int       `json:"horizon_days"`
	NumPaths     int       `json:"num_paths"`
	P5           []float64 `json:"p5"`
	Median       []float64 `json:"median"`
	P95          []float64 `json:"p95"`
	TerminalP5   float64   `json:"terminal_p5"`
	TerminalP50  float64   `json:"terminal_p50"`
	TerminalP95  float64   `json:"terminal_p95"`
}

// CrisisReport compares realized losses within a named date range against a
// previously computed VaR threshold.
type CrisisReport struct {
	Name             string    `json:"name"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	Observations     int       `json:"observations"`
	WorstDailyReturn float64   `json:"worst_daily_return"`
	WorstDay         time.Time `json:"worst_day"`
	CumulativeReturn float64   `json:"cumulative_return"`
	ReferenceVaR     float64   `json:"reference_var"`
	Violations       int       `json:"violations"`
	ExceededSeverity float64   `json:"exceeded_var_severity"`
}

// RiskReport is the full analytics output for one portfolio snapshot.
type RiskReport struct {
	Portfolio         string            `json:"portfolio"`
	GeneratedAt       time.Time         `json:"generated_at"`
	Symbols           []string          `json:"symbols"`
	Weights           WeightVector      `json:"weights"`
	InitialInvestment float64           `json:"initial_investment"`
	ConfidenceLevel   float64           `json:"confidence_level"`
	Observations      int               `json:"observations"`
	VaR               []VaRResult       `json:"var"`
	Moments           MomentReport      `json:"moments"`
	Decomposition     RiskDecomposition `json:"decomposition"`
	Projection        ProjectionResult  `json:"projection"`
	Crises            []CrisisReport    `json:"crises,omitempty"`
}
