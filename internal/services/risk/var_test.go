package risk

import (
	"math"
	"testing"

	"RiskLens/internal/domain/models"
)

var fixtureReturns = []float64{-0.05, -0.03, -0.01, 0, 0.02, 0.04, 0.06}

func TestPercentileInterpolation(t *testing.T) {
	// 20th percentile of the 7-point fixture interpolates between the
	// 2nd and 3rd order statistics: index 0.2*6 = 1.2.
	got, err := Percentile(fixtureReturns, 0.20)
	if err != nil {
		t.Fatalf("Percentile: %v", err)
	}
	if !closeTo(got, -0.026, 1e-12) {
		t.Errorf("p20 = %v, want -0.026", got)
	}
}

func TestPercentileBounds(t *testing.T) {
	lo, err := Percentile(fixtureReturns, 0)
	if err != nil {
		t.Fatalf("Percentile: %v", err)
	}
	if lo != -0.05 {
		t.Errorf("p0 = %v, want -0.05", lo)
	}
	hi, err := Percentile(fixtureReturns, 1)
	if err != nil {
		t.Fatalf("Percentile: %v", err)
	}
	if hi != 0.06 {
		t.Errorf("p100 = %v, want 0.06", hi)
	}
}

func TestHistoricalVaR(t *testing.T) {
	v, err := HistoricalVaR(fixtureReturns, 0.80)
	if err != nil {
		t.Fatalf("HistoricalVaR: %v", err)
	}
	if !closeTo(v, -0.026, 1e-12) {
		t.Errorf("VaR(80%%) = %v, want -0.026", v)
	}
}

func TestHistoricalCVaR(t *testing.T) {
	cv, err := HistoricalCVaR(fixtureReturns, 0.80)
	if err != nil {
		t.Fatalf("HistoricalCVaR: %v", err)
	}
	// Tail at or below -0.026 is {-0.05, -0.03}.
	if !closeTo(cv, -0.04, 1e-12) {
		t.Errorf("CVaR(80%%) = %v, want -0.04", cv)
	}
	if cv > -0.026 {
		t.Errorf("CVaR %v must not exceed the VaR threshold", cv)
	}
}

func TestParametricVaR(t *testing.T) {
	v, err := ParametricVaR(fixtureReturns, 0.80)
	if err != nil {
		t.Fatalf("ParametricVaR: %v", err)
	}
	if !closeTo(v, -0.02826, 5e-4) {
		t.Errorf("parametric VaR(80%%) = %v, want about -0.0283", v)
	}
	cv, err := ParametricCVaR(fixtureReturns, 0.80)
	if err != nil {
		t.Fatalf("ParametricCVaR: %v", err)
	}
	if cv >= v {
		t.Errorf("parametric CVaR %v must be below VaR %v", cv, v)
	}
}

func TestMonteCarloDeterminism(t *testing.T) {
	sampler, err := FitNormal(fixtureReturns)
	if err != nil {
		t.Fatalf("FitNormal: %v", err)
	}
	v1, cv1, err := MonteCarloVaR(sampler, 5000, 0.95, 42)
	if err != nil {
		t.Fatalf("MonteCarloVaR: %v", err)
	}
	v2, cv2, err := MonteCarloVaR(sampler, 5000, 0.95, 42)
	if err != nil {
		t.Fatalf("MonteCarloVaR: %v", err)
	}
	if v1 != v2 || cv1 != cv2 {
		t.Errorf("same seed produced different results: %v/%v vs %v/%v", v1, cv1, v2, cv2)
	}
	v3, _, err := MonteCarloVaR(sampler, 5000, 0.95, 43)
	if err != nil {
		t.Fatalf("MonteCarloVaR: %v", err)
	}
	if v1 == v3 {
		t.Error("different seeds produced identical VaR")
	}
}

func TestMonteCarloConvergesToParametric(t *testing.T) {
	sampler := &NormalDraws{Mean: 0.0005, StdDev: 0.02}
	v, _, err := MonteCarloVaR(sampler, 200000, 0.95, 7)
	if err != nil {
		t.Fatalf("MonteCarloVaR: %v", err)
	}
	want := 0.0005 - 1.6449*0.02
	if math.Abs(v-want) > 0.002 {
		t.Errorf("MC VaR %v too far from analytic %v", v, want)
	}
}

func TestBootstrapDrawsFromSample(t *testing.T) {
	sampler, err := NewBootstrapDraws(fixtureReturns)
	if err != nil {
		t.Fatalf("NewBootstrapDraws: %v", err)
	}
	v, cv, err := MonteCarloVaR(sampler, 10000, 0.90, 1)
	if err != nil {
		t.Fatalf("MonteCarloVaR: %v", err)
	}
	// Resampling can never leave the observed support.
	if v < -0.05 || v > 0.06 {
		t.Errorf("bootstrap VaR %v outside sample range", v)
	}
	if cv < -0.05 {
		t.Errorf("bootstrap CVaR %v outside sample range", cv)
	}
}

func TestComputeVaRInvalidInputs(t *testing.T) {
	params := VaRParams{Confidence: 0.95, Samples: 1000, Seed: 1}
	if _, err := ComputeVaR(models.VaRHistorical, []float64{0.01}, params); err == nil {
		t.Fatal("expected error for one observation")
	}
	if _, err := ComputeVaR(models.VaRHistorical, fixtureReturns, VaRParams{Confidence: 1.0}); err == nil {
		t.Fatal("expected error for confidence = 1")
	}
	if _, err := ComputeVaR(models.VaRMethod("garbage"), fixtureReturns, params); err == nil {
		t.Fatal("expected error for unknown method")
	}
}

func TestComputeAllVaR(t *testing.T) {
	params := VaRParams{Confidence: 0.95, Samples: 10000, Seed: 42}
	all, err := ComputeAllVaR(fixtureReturns, params)
	if err != nil {
		t.Fatalf("ComputeAllVaR: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 methods, got %d", len(all))
	}
	for method, res := range all {
		if res.Method != method {
			t.Errorf("result for %s labeled %s", method, res.Method)
		}
		if res.CVaR > res.VaR {
			t.Errorf("%s: CVaR %v exceeds VaR %v", method, res.CVaR, res.VaR)
		}
	}
}
