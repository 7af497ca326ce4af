package risk

import (
	"math"
	"sort"
	"strconv"
	"time"

	"RiskLens/internal/domain/models"
)


// WeightSumTolerance is the allowed deviation of a weight vector from 1.0.
const WeightSumTolerance = 1e-9

// ValidateWeights checks that every weight is non-negative and the vector
// sums to 1.0 within tolerance.
func ValidateWeights(op string, weights models.WeightVector) error {
	if len(weights) == 0 {
		return &InvalidParameterError{Op: op, Param: "weights", Value: "empty"}
	}
	for symbol, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return &InvalidParameterError{Op: op, Param: "weights[" + symbol + "]", Value: w}
		}
	}
	if s := weights.Sum(); math.Abs(s-1.0) > WeightSumTolerance {
		return &InvalidParameterError{Op: op, Param: "sum(weights)", Value: s}
	}
	return nil
}

// ComputeReturns converts a price series into simple percentage returns
// r_t = (P_t - P_{t-1}) / P_{t-1}. The first period has no defined return
// and is dropped, so the result is one observation shorter.
func ComputeReturns(prices models.PriceSeries) (models.ReturnSeries, error) {
	const op = "risk.ComputeReturns"
	if len(prices.Points) < 2 {
		return models.ReturnSeries{}, &InsufficientDataError{Op: op, Need: 2, Got: len(prices.Points)}
	}
	dates := make([]time.Time, 0, len(prices.Points)-1)
	values := make([]float64, 0, len(prices.Points)-1)
	for i := 1; i < len(prices.Points); i++ {
		prev := prices.Points[i-1].Close
		if prev <= 0 {
			return models.ReturnSeries{}, &InvalidParameterError{Op: op, Param: "price[" + prices.Symbol + "]", Value: prev}
		}
		dates = append(dates, prices.Points[i].Date)
		values = append(values, (prices.Points[i].Close-prev)/prev)
	}
	return models.ReturnSeries{Dates: dates, Values: values}, nil
}

// AggregatePortfolioReturns combines instrument return series into one
// portfolio series using the weight vector. Every series named in weights
// must be present with identical date alignment.
func AggregatePortfolioReturns(instrumentReturns map[string]models.ReturnSeries, weights models.WeightVector) (models.ReturnSeries, error) {
	const op = "risk.AggregatePortfolioReturns"
	if err := ValidateWeights(op, weights); err != nil {
		return models.ReturnSeries{}, err
	}

	// Deterministic iteration order.
	symbols := make([]string, 0, len(weights))
	for s := range weights {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	ref, ok := instrumentReturns[symbols[0]]
	if !ok {
		return models.ReturnSeries{}, &MisalignedSeriesError{Op: op, Symbol: symbols[0], Detail: "series missing"}
	}
	for _, s := range symbols[1:] {
		rs, ok := instrumentReturns[s]
		if !ok {
			return models.ReturnSeries{}, &MisalignedSeriesError{Op: op, Symbol: s, Detail: "series missing"}
		}
		if rs.Len() != ref.Len() {
			return models.ReturnSeries{}, &MisalignedSeriesError{
				Op: op, Symbol: s,
				Detail: "length " + strconv.Itoa(rs.Len()) + " != " + strconv.Itoa(ref.Len()),
			}
		}
		for i := range rs.Dates {
			if !rs.Dates[i].Equal(ref.Dates[i]) {
				return models.ReturnSeries{}, &MisalignedSeriesError{
					Op: op, Symbol: s,
					Detail: "date " + rs.Dates[i].Format("2006-01-02") + " != " + ref.Dates[i].Format("2006-01-02"),
				}
			}
		}
	}

	values := make([]float64, ref.Len())
	for _, s := range symbols {
		rs := instrumentReturns[s]
		w := weights[s]
		for i, r := range rs.Values {
			values[i] += w * r
		}
	}
	dates := make([]time.Time, ref.Len())
	copy(dates, ref.Dates)
	return models.ReturnSeries{Dates: dates, Values: values}, nil
}

// ComputePortfolioValue compounds portfolio returns into a value series.
// The result has one more element than the return series; index 0 is the
// initial investment.
func ComputePortfolioValue(portfolioReturns models.ReturnSeries, initialInvestment float64) ([]float64, error) {
	const op = "risk.ComputePortfolioValue"
	if initialInvestment <= 0 {
		return nil, &InvalidParameterError{Op: op, Param: "initialInvestment", Value: initialInvestment}
	}
	values := make([]float64, portfolioReturns.Len()+1)
	values[0] = initialInvestment
	for i, r := range portfolioReturns.Values {
		values[i+1] = values[i] * (1 + r)
	}
	return values, nil
}
