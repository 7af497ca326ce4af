package risk

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"RiskLens/internal/domain/models"
)

// Decompose splits portfolio volatility into per-asset marginal and
// component contributions from the sample covariance of asset returns.
// Component contributions sum to the portfolio volatility.
func Decompose(assetReturns map[string]models.ReturnSeries, weights models.WeightVector) (models.RiskDecomposition, error) {
	const op = "risk.Decompose"

	if err := ValidateWeights(op, weights); err != nil {
		return models.RiskDecomposition{}, err
	}
	symbols := make([]string, 0, len(weights))
	for sym := range weights {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	if len(symbols) == 0 {
		return models.RiskDecomposition{}, &InvalidParameterError{Op: op, Param: "weights", Value: "empty"}
	}

	n := -1
	series := make([][]float64, len(symbols))
	for i, sym := range symbols {
		rs, ok := assetReturns[sym]
		if !ok {
			return models.RiskDecomposition{}, &MisalignedSeriesError{Op: op, Symbol: sym, Detail: "no return series"}
		}
		if n == -1 {
			n = rs.Len()
		} else if rs.Len() != n {
			return models.RiskDecomposition{}, &MisalignedSeriesError{Op: op, Symbol: sym, Detail: "length mismatch"}
		}
		series[i] = rs.Values
	}
	if n < 2 {
		return models.RiskDecomposition{}, &InsufficientDataError{Op: op, Need: 2, Got: n}
	}

	k := len(symbols)
	cov := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			cov.SetSym(i, j, stat.Covariance(series[i], series[j], nil))
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return models.RiskDecomposition{}, &SingularCovarianceError{Op: op, Dim: k}
	}

	w := mat.NewVecDense(k, nil)
	for i, sym := range symbols {
		w.SetVec(i, weights[sym])
	}
	var sigmaW mat.VecDense
	sigmaW.MulVec(cov, w)
	variance := mat.Dot(w, &sigmaW)
	vol := math.Sqrt(variance)
	if vol == 0 {
		return models.RiskDecomposition{}, &SingularCovarianceError{Op: op, Dim: k}
	}

	contributions := make(map[string]models.RiskContribution, k)
	for i, sym := range symbols {
		marginal := sigmaW.AtVec(i) / vol
		contributions[sym] = models.RiskContribution{
			Weight:    weights[sym],
			Marginal:  marginal,
			Component: weights[sym] * marginal,
		}
	}

	corr := correlationFromCovariance(symbols, cov)

	return models.RiskDecomposition{
		PortfolioVolatility: vol,
		Contributions:       contributions,
		Correlations:        corr,
	}, nil
}

// correlationFromCovariance normalizes a covariance matrix to pairwise
// correlations and averages the off-diagonal entries.
func correlationFromCovariance(symbols []string, cov *mat.SymDense) models.CorrelationMatrix {
	k := len(symbols)
	matrix := make([][]float64, k)
	sum := 0.0
	pairs := 0
	for i := 0; i < k; i++ {
		matrix[i] = make([]float64, k)
		for j := 0; j < k; j++ {
			denom := math.Sqrt(cov.At(i, i) * cov.At(j, j))
			c := 0.0
			if denom > 0 {
				c = cov.At(i, j) / denom
			}
			matrix[i][j] = c
			if i != j {
				sum += c
				pairs++
			}
		}
	}
	avg := 0.0
	if pairs > 0 {
		avg = sum / float64(pairs)
	}
	return models.CorrelationMatrix{Symbols: symbols, Matrix: matrix, AverageCorr: avg}
}
