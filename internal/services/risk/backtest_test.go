package risk

import (
	"testing"

	"RiskLens/internal/domain/models"
)

// spikedSeries returns length days of +1% returns with -10% shocks at
// the given indices.
func spikedSeries(length int, shocks ...int) models.ReturnSeries {
	values := make([]float64, length)
	for i := range values {
		values[i] = 0.01
	}
	for _, s := range shocks {
		values[s] = -0.10
	}
	return series(0, values...)
}

func TestBacktestPass(t *testing.T) {
	// 100 out-of-sample days with shocks spaced a full window apart,
	// so every trailing window holds at most one shock and each shock
	// day breaches the predicted VaR. 5 violations at 95% confidence
	// is exactly the expected rate.
	rs := spikedSeries(120, 29, 49, 69, 89, 109)
	cfg := BacktestConfig{
		Method:     models.VaRHistorical,
		Confidence: 0.95,
		WindowSize: 20,
		Tolerance:  0.02,
	}
	summary, records, err := Backtest(rs, cfg)
	if err != nil {
		t.Fatalf("Backtest: %v", err)
	}
	if summary.TotalObservations != 100 {
		t.Fatalf("observations = %d, want 100", summary.TotalObservations)
	}
	if summary.ViolationCount != 5 {
		t.Fatalf("violations = %d, want 5", summary.ViolationCount)
	}
	if summary.Verdict != models.BacktestPass {
		t.Errorf("verdict = %s, want pass (rate %v vs expected %v)",
			summary.Verdict, summary.ViolationRate, summary.ExpectedRate)
	}
	if len(records) != 100 {
		t.Fatalf("records = %d, want 100", len(records))
	}
	for _, rec := range records {
		if rec.IsViolation != (rec.RealizedReturn < rec.PredictedVaR) {
			t.Fatalf("record %s: violation flag inconsistent", rec.Date)
		}
	}
}

func TestBacktestFail(t *testing.T) {
	// A flat series never breaches its own VaR, so the violation rate
	// is 0 against an expected 5%. Outside a 2% tolerance that fails.
	values := make([]float64, 120)
	for i := range values {
		values[i] = 0.001
	}
	rs := series(0, values...)
	cfg := BacktestConfig{
		Method:     models.VaRHistorical,
		Confidence: 0.95,
		WindowSize: 20,
		Tolerance:  0.02,
	}
	summary, _, err := Backtest(rs, cfg)
	if err != nil {
		t.Fatalf("Backtest: %v", err)
	}
	if summary.ViolationCount != 0 {
		t.Fatalf("violations = %d, want 0", summary.ViolationCount)
	}
	if summary.Verdict != models.BacktestFail {
		t.Errorf("verdict = %s, want fail", summary.Verdict)
	}
}

func TestBacktestTooShort(t *testing.T) {
	rs := spikedSeries(20)
	cfg := BacktestConfig{
		Method:     models.VaRHistorical,
		Confidence: 0.95,
		WindowSize: 20,
		Tolerance:  0.02,
	}
	if _, _, err := Backtest(rs, cfg); err == nil {
		t.Fatal("expected error when series does not exceed the window")
	} else if _, ok := err.(*InsufficientDataError); !ok {
		t.Fatalf("expected InsufficientDataError, got %T", err)
	}
}

func TestBacktestInvalidConfig(t *testing.T) {
	rs := spikedSeries(120)
	bad := []BacktestConfig{
		{Method: models.VaRHistorical, Confidence: 0, WindowSize: 20, Tolerance: 0.02},
		{Method: models.VaRHistorical, Confidence: 0.95, WindowSize: 1, Tolerance: 0.02},
		{Method: models.VaRHistorical, Confidence: 0.95, WindowSize: 20, Tolerance: -0.01},
	}
	for i, cfg := range bad {
		if _, _, err := Backtest(rs, cfg); err == nil {
			t.Errorf("case %d: expected config error", i)
		}
	}
}

func TestBacktestMonteCarloDeterministic(t *testing.T) {
	rs := spikedSeries(80, 29, 49)
	cfg := BacktestConfig{
		Method:     models.VaRMonteCarlo,
		Confidence: 0.95,
		WindowSize: 20,
		Tolerance:  0.05,
		Samples:    2000,
		Seed:       42,
	}
	s1, _, err := Backtest(rs, cfg)
	if err != nil {
		t.Fatalf("Backtest: %v", err)
	}
	s2, _, err := Backtest(rs, cfg)
	if err != nil {
		t.Fatalf("Backtest: %v", err)
	}
	if s1.ViolationCount != s2.ViolationCount {
		t.Errorf("same seed produced different violation counts: %d vs %d",
			s1.ViolationCount, s2.ViolationCount)
	}
}
