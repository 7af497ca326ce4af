package risk

import (
	"math"
	"testing"
)

func TestMomentsBasic(t *testing.T) {
	sample := []float64{0.01, -0.02, 0.03, 0.0, 0.015}
	mean, err := Mean(sample)
	if err != nil {
		t.Fatalf("Mean: %v", err)
	}
	if !closeTo(mean, 0.005, 1e-12) {
		t.Errorf("mean = %v, want 0.005", mean)
	}
	sd, err := StdDev(sample)
	if err != nil {
		t.Fatalf("StdDev: %v", err)
	}
	if sd <= 0 {
		t.Errorf("stddev = %v, want > 0", sd)
	}
}

func TestSkewnessSymmetric(t *testing.T) {
	sample := []float64{-0.02, -0.01, 0, 0.01, 0.02}
	skew, err := Skewness(sample)
	if err != nil {
		t.Fatalf("Skewness: %v", err)
	}
	if !closeTo(skew, 0, 1e-12) {
		t.Errorf("skewness of symmetric sample = %v, want 0", skew)
	}
}

func TestSharpeRatio(t *testing.T) {
	// Constant excess mean with known stddev.
	sample := []float64{0.01, 0.03, 0.01, 0.03}
	sharpe, err := SharpeRatio(sample, 0, 252)
	if err != nil {
		t.Fatalf("SharpeRatio: %v", err)
	}
	// mean 0.02, sample stddev sqrt(4e-4/3).
	want := 0.02 / math.Sqrt(4e-4/3) * math.Sqrt(252)
	if !closeTo(sharpe, want, 1e-9) {
		t.Errorf("sharpe = %v, want %v", sharpe, want)
	}
}

func TestSharpeZeroVolatility(t *testing.T) {
	if _, err := SharpeRatio([]float64{0.01, 0.01, 0.01}, 0, 252); err == nil {
		t.Fatal("expected error for zero volatility")
	}
}

func TestSortinoNoDownside(t *testing.T) {
	sortino, err := SortinoRatio([]float64{0.01, 0.02, 0.03}, 0, 252)
	if err != nil {
		t.Fatalf("SortinoRatio: %v", err)
	}
	if !math.IsInf(sortino, 1) {
		t.Errorf("sortino with no downside = %v, want +Inf", sortino)
	}
}

func TestSortinoWithDownside(t *testing.T) {
	sortino, err := SortinoRatio([]float64{0.02, -0.01, 0.03, -0.02}, 0, 252)
	if err != nil {
		t.Fatalf("SortinoRatio: %v", err)
	}
	if math.IsInf(sortino, 0) || math.IsNaN(sortino) {
		t.Errorf("sortino = %v, want finite", sortino)
	}
}

func TestMaxDrawdownMonotonic(t *testing.T) {
	dd, _, _, err := MaxDrawdown([]float64{100, 105, 110, 120})
	if err != nil {
		t.Fatalf("MaxDrawdown: %v", err)
	}
	if dd != 0 {
		t.Errorf("drawdown of rising series = %v, want 0", dd)
	}
}

func TestMaxDrawdownKnown(t *testing.T) {
	values := []float64{100, 120, 90, 95, 110}
	dd, peak, trough, err := MaxDrawdown(values)
	if err != nil {
		t.Fatalf("MaxDrawdown: %v", err)
	}
	if !closeTo(dd, -0.25, 1e-12) {
		t.Errorf("drawdown = %v, want -0.25", dd)
	}
	if peak != 1 || trough != 2 {
		t.Errorf("peak/trough = %d/%d, want 1/2", peak, trough)
	}
}

func TestMomentsReport(t *testing.T) {
	rs := series(1, 0.02, -0.03, 0.01, 0.015, -0.005)
	values, err := ComputePortfolioValue(rs, 10000)
	if err != nil {
		t.Fatalf("ComputePortfolioValue: %v", err)
	}
	report, err := Moments(rs, values, 0.02, 252)
	if err != nil {
		t.Fatalf("Moments: %v", err)
	}
	if report.StdDev <= 0 {
		t.Errorf("stddev = %v, want > 0", report.StdDev)
	}
	if report.Drawdown.MaxDrawdown > 0 {
		t.Errorf("drawdown = %v, want <= 0", report.Drawdown.MaxDrawdown)
	}
	if report.Drawdown.MaxDrawdown == 0 {
		t.Error("series with a -3% day should have a nonzero drawdown")
	}
}

func TestMomentsDrawdownPeakAtStart(t *testing.T) {
	// Strictly declining series: the peak is the initial investment, before
	// any return is realized. The peak date must still be a real date.
	rs := series(1, -0.01, -0.02, -0.005)
	values, err := ComputePortfolioValue(rs, 10000)
	if err != nil {
		t.Fatalf("ComputePortfolioValue: %v", err)
	}
	report, err := Moments(rs, values, 0, 252)
	if err != nil {
		t.Fatalf("Moments: %v", err)
	}
	if report.Drawdown.PeakDate.IsZero() {
		t.Fatal("peak date is the zero time")
	}
	if !report.Drawdown.PeakDate.Equal(rs.Dates[0]) {
		t.Errorf("peak date = %v, want %v", report.Drawdown.PeakDate, rs.Dates[0])
	}
	if !report.Drawdown.TroughDate.Equal(rs.Dates[2]) {
		t.Errorf("trough date = %v, want %v", report.Drawdown.TroughDate, rs.Dates[2])
	}
}
