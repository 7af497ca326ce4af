package risk

import (
	"math"
	"testing"

	"RiskLens/internal/domain/models"
)

func decompFixture() (map[string]models.ReturnSeries, models.WeightVector) {
	asset := map[string]models.ReturnSeries{
		"AAPL": series(1, 0.02, -0.01, 0.015, -0.02, 0.01, 0.005),
		"MSFT": series(1, 0.01, 0.02, -0.01, 0.005, -0.015, 0.02),
		"TLT":  series(1, -0.005, 0.004, 0.002, 0.01, -0.002, -0.006),
	}
	weights := models.WeightVector{"AAPL": 0.5, "MSFT": 0.3, "TLT": 0.2}
	return asset, weights
}

func TestDecomposeComponentSum(t *testing.T) {
	asset, weights := decompFixture()
	decomp, err := Decompose(asset, weights)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if decomp.PortfolioVolatility <= 0 {
		t.Fatalf("volatility = %v, want > 0", decomp.PortfolioVolatility)
	}
	sum := 0.0
	for _, c := range decomp.Contributions {
		sum += c.Component
	}
	if math.Abs(sum-decomp.PortfolioVolatility) > 1e-9*decomp.PortfolioVolatility {
		t.Errorf("component sum %v != portfolio volatility %v", sum, decomp.PortfolioVolatility)
	}
}

func TestDecomposeCorrelations(t *testing.T) {
	asset, weights := decompFixture()
	decomp, err := Decompose(asset, weights)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	corr := decomp.Correlations
	k := len(corr.Symbols)
	if k != 3 {
		t.Fatalf("expected 3 symbols, got %d", k)
	}
	for i := 0; i < k; i++ {
		if !closeTo(corr.Matrix[i][i], 1, 1e-12) {
			t.Errorf("diagonal [%d][%d] = %v, want 1", i, i, corr.Matrix[i][i])
		}
		for j := 0; j < k; j++ {
			if !closeTo(corr.Matrix[i][j], corr.Matrix[j][i], 1e-12) {
				t.Errorf("matrix not symmetric at [%d][%d]", i, j)
			}
			if corr.Matrix[i][j] < -1-1e-12 || corr.Matrix[i][j] > 1+1e-12 {
				t.Errorf("correlation [%d][%d] = %v out of range", i, j, corr.Matrix[i][j])
			}
		}
	}
	if corr.AverageCorr < -1 || corr.AverageCorr > 1 {
		t.Errorf("average correlation %v out of range", corr.AverageCorr)
	}
}

func TestDecomposeSingularCovariance(t *testing.T) {
	// Two identical series make the covariance matrix rank deficient.
	dup := series(1, 0.02, -0.01, 0.015, -0.02, 0.01)
	asset := map[string]models.ReturnSeries{"A": dup, "B": dup}
	weights := models.WeightVector{"A": 0.5, "B": 0.5}
	if _, err := Decompose(asset, weights); err == nil {
		t.Fatal("expected error for singular covariance")
	} else if _, ok := err.(*SingularCovarianceError); !ok {
		t.Fatalf("expected SingularCovarianceError, got %T", err)
	}
}

func TestDecomposeMisaligned(t *testing.T) {
	asset := map[string]models.ReturnSeries{
		"A": series(1, 0.02, -0.01),
		"B": series(1, 0.01, 0.02, 0.005),
	}
	weights := models.WeightVector{"A": 0.5, "B": 0.5}
	if _, err := Decompose(asset, weights); err == nil {
		t.Fatal("expected error for misaligned series")
	}
}

func TestDecomposeSingleAsset(t *testing.T) {
	asset := map[string]models.ReturnSeries{
		"A": series(1, 0.02, -0.01, 0.015, -0.02),
	}
	weights := models.WeightVector{"A": 1.0}
	decomp, err := Decompose(asset, weights)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	c := decomp.Contributions["A"]
	if !closeTo(c.Component, decomp.PortfolioVolatility, 1e-12) {
		t.Errorf("single asset component %v != volatility %v", c.Component, decomp.PortfolioVolatility)
	}
}
