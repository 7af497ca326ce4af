package risk

import (
	"math"
	"testing"
	"time"

	"RiskLens/internal/domain/models"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func series(start int, values ...float64) models.ReturnSeries {
	rs := models.ReturnSeries{
		Dates:  make([]time.Time, len(values)),
		Values: values,
	}
	for i := range values {
		rs.Dates[i] = day(start + i)
	}
	return rs
}

func closeTo(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestComputeReturns(t *testing.T) {
	prices := models.PriceSeries{
		Symbol: "AAPL",
		Points: []models.PricePoint{
			{Date: day(0), Close: 100},
			{Date: day(1), Close: 110},
			{Date: day(2), Close: 99},
		},
	}
	rs, err := ComputeReturns(prices)
	if err != nil {
		t.Fatalf("ComputeReturns: %v", err)
	}
	if rs.Len() != 2 {
		t.Fatalf("expected 2 returns, got %d", rs.Len())
	}
	if !closeTo(rs.Values[0], 0.10, 1e-12) {
		t.Errorf("first return = %v, want 0.10", rs.Values[0])
	}
	if !closeTo(rs.Values[1], -0.10, 1e-12) {
		t.Errorf("second return = %v, want -0.10", rs.Values[1])
	}
	if !rs.Dates[0].Equal(day(1)) {
		t.Errorf("first return dated %v, want %v", rs.Dates[0], day(1))
	}
}

func TestComputeReturnsTooShort(t *testing.T) {
	prices := models.PriceSeries{
		Symbol: "AAPL",
		Points: []models.PricePoint{{Date: day(0), Close: 100}},
	}
	if _, err := ComputeReturns(prices); err == nil {
		t.Fatal("expected error for single price point")
	} else if _, ok := err.(*InsufficientDataError); !ok {
		t.Fatalf("expected InsufficientDataError, got %T", err)
	}
}

func TestComputeReturnsNonPositivePrice(t *testing.T) {
	prices := models.PriceSeries{
		Symbol: "BAD",
		Points: []models.PricePoint{
			{Date: day(0), Close: 100},
			{Date: day(1), Close: 0},
			{Date: day(2), Close: 50},
		},
	}
	if _, err := ComputeReturns(prices); err == nil {
		t.Fatal("expected error for zero price")
	}
}

func TestValidateWeights(t *testing.T) {
	cases := []struct {
		name    string
		weights models.WeightVector
		wantErr bool
	}{
		{"valid", models.WeightVector{"A": 0.6, "B": 0.4}, false},
		{"sum off", models.WeightVector{"A": 0.6, "B": 0.3}, true},
		{"negative", models.WeightVector{"A": 1.5, "B": -0.5}, true},
		{"nan", models.WeightVector{"A": math.NaN(), "B": 1}, true},
	}
	for _, tc := range cases {
		err := ValidateWeights("test", tc.weights)
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestAggregatePortfolioReturns(t *testing.T) {
	asset := map[string]models.ReturnSeries{
		"A": series(1, 0.02, -0.01),
		"B": series(1, 0.04, 0.03),
	}
	weights := models.WeightVector{"A": 0.5, "B": 0.5}
	port, err := AggregatePortfolioReturns(asset, weights)
	if err != nil {
		t.Fatalf("AggregatePortfolioReturns: %v", err)
	}
	if !closeTo(port.Values[0], 0.03, 1e-12) {
		t.Errorf("day 1 = %v, want 0.03", port.Values[0])
	}
	if !closeTo(port.Values[1], 0.01, 1e-12) {
		t.Errorf("day 2 = %v, want 0.01", port.Values[1])
	}
}

func TestAggregateMisaligned(t *testing.T) {
	asset := map[string]models.ReturnSeries{
		"A": series(1, 0.02, -0.01),
		"B": series(1, 0.04),
	}
	weights := models.WeightVector{"A": 0.5, "B": 0.5}
	if _, err := AggregatePortfolioReturns(asset, weights); err == nil {
		t.Fatal("expected error for mismatched lengths")
	} else if _, ok := err.(*MisalignedSeriesError); !ok {
		t.Fatalf("expected MisalignedSeriesError, got %T", err)
	}
}

func TestAggregateMissingSeries(t *testing.T) {
	asset := map[string]models.ReturnSeries{"A": series(1, 0.02)}
	weights := models.WeightVector{"A": 0.5, "B": 0.5}
	if _, err := AggregatePortfolioReturns(asset, weights); err == nil {
		t.Fatal("expected error for missing series")
	}
}

func TestComputePortfolioValue(t *testing.T) {
	rs := series(1, 0.10, -0.10)
	values, err := ComputePortfolioValue(rs, 1000)
	if err != nil {
		t.Fatalf("ComputePortfolioValue: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(values))
	}
	if values[0] != 1000 {
		t.Errorf("initial = %v, want 1000", values[0])
	}
	if !closeTo(values[1], 1100, 1e-9) {
		t.Errorf("after day 1 = %v, want 1100", values[1])
	}
	if !closeTo(values[2], 990, 1e-9) {
		t.Errorf("after day 2 = %v, want 990", values[2])
	}
}
