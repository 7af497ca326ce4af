package risk

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"RiskLens/internal/domain/models"
)

// Percentile computes the p-th percentile (p in [0,1]) with linear
// interpolation between closest ranks, matching the convention
// idx = p * (n-1) over the sorted sample.
func Percentile(sample []float64, p float64) (float64, error) {
	const op = "risk.Percentile"
	if len(sample) == 0 {
		return 0, &InsufficientDataError{Op: op, Need: 1, Got: 0}
	}
	if p < 0 || p > 1 {
		return 0, &InvalidParameterError{Op: op, Param: "p", Value: p}
	}
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0], nil
	}
	idx := p * float64(len(sorted)-1)
	lo := int(idx)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1], nil
	}
	frac := idx - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo]), nil
}

func validateVaRInputs(op string, returns []float64, confidence float64) error {
	if len(returns) < 2 {
		return &InsufficientDataError{Op: op, Need: 2, Got: len(returns)}
	}
	if confidence <= 0 || confidence >= 1 {
		return &InvalidParameterError{Op: op, Param: "confidence", Value: confidence}
	}
	return nil
}

// HistoricalVaR takes the empirical (1-confidence) quantile of observed
// returns. The result is negative for loss.
func HistoricalVaR(returns []float64, confidence float64) (float64, error) {
	const op = "risk.HistoricalVaR"
	if err := validateVaRInputs(op, returns, confidence); err != nil {
		return 0, err
	}
	return Percentile(returns, 1-confidence)
}

// HistoricalCVaR averages the returns at or below the VaR threshold.
func HistoricalCVaR(returns []float64, confidence float64) (float64, error) {
	const op = "risk.HistoricalCVaR"
	if err := validateVaRInputs(op, returns, confidence); err != nil {
		return 0, err
	}
	threshold, err := Percentile(returns, 1-confidence)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	n := 0
	for _, r := range returns {
		if r <= threshold {
			sum += r
			n++
		}
	}
	if n == 0 {
		return 0, &EmptyTailError{Op: op, Threshold: threshold, Sample: len(returns)}
	}
	return sum / float64(n), nil
}

// ParametricVaR fits a Gaussian to the sample and reads the quantile off
// the fitted distribution.
func ParametricVaR(returns []float64, confidence float64) (float64, error) {
	const op = "risk.ParametricVaR"
	if err := validateVaRInputs(op, returns, confidence); err != nil {
		return 0, err
	}
	mean := stat.Mean(returns, nil)
	sd := stat.StdDev(returns, nil)
	z := distuv.UnitNormal.Quantile(1 - confidence)
	return mean + z*sd, nil
}

// ParametricCVaR is the closed-form Gaussian expected shortfall:
// mean - sd * phi(z) / (1-confidence).
func ParametricCVaR(returns []float64, confidence float64) (float64, error) {
	const op = "risk.ParametricCVaR"
	if err := validateVaRInputs(op, returns, confidence); err != nil {
		return 0, err
	}
	mean := stat.Mean(returns, nil)
	sd := stat.StdDev(returns, nil)
	z := distuv.UnitNormal.Quantile(1 - confidence)
	return mean - sd*distuv.UnitNormal.Prob(z)/(1-confidence), nil
}

// MonteCarloVaR simulates synthetic daily returns through the sampler
// and applies the historical estimator to the simulated sample. The same
// seed and sampler always produce the same result.
func MonteCarloVaR(sampler Sampler, samples int, confidence float64, seed int64) (float64, float64, error) {
	const op = "risk.MonteCarloVaR"
	if samples < 2 {
		return 0, 0, &InvalidParameterError{Op: op, Param: "samples", Value: samples}
	}
	if confidence <= 0 || confidence >= 1 {
		return 0, 0, &InvalidParameterError{Op: op, Param: "confidence", Value: confidence}
	}
	rng := rand.New(rand.NewSource(seed))
	simulated := make([]float64, samples)
	for i := range simulated {
		simulated[i] = sampler.Draw(rng)
	}
	v, err := HistoricalVaR(simulated, confidence)
	if err != nil {
		return 0, 0, err
	}
	cv, err := HistoricalCVaR(simulated, confidence)
	if err != nil {
		return 0, 0, err
	}
	return v, cv, nil
}

// VaRParams bundles the tunables shared by the three estimators.
type VaRParams struct {
	Confidence float64
	Samples    int
	Seed       int64
}

// ComputeVaR dispatches on method and returns a populated result.
func ComputeVaR(method models.VaRMethod, returns []float64, params VaRParams) (models.VaRResult, error) {
	const op = "risk.ComputeVaR"
	res := models.VaRResult{Method: method, ConfidenceLevel: params.Confidence}

	switch method {
	case models.VaRHistorical:
		v, err := HistoricalVaR(returns, params.Confidence)
		if err != nil {
			return models.VaRResult{}, err
		}
		cv, err := HistoricalCVaR(returns, params.Confidence)
		if err != nil {
			return models.VaRResult{}, err
		}
		res.VaR, res.CVaR = v, cv
	case models.VaRParametric:
		v, err := ParametricVaR(returns, params.Confidence)
		if err != nil {
			return models.VaRResult{}, err
		}
		cv, err := ParametricCVaR(returns, params.Confidence)
		if err != nil {
			return models.VaRResult{}, err
		}
		res.VaR, res.CVaR = v, cv
	case models.VaRMonteCarlo:
		sampler, err := FitNormal(returns)
		if err != nil {
			return models.VaRResult{}, err
		}
		v, cv, err := MonteCarloVaR(sampler, params.Samples, params.Confidence, params.Seed)
		if err != nil {
			return models.VaRResult{}, err
		}
		res.VaR, res.CVaR = v, cv
	default:
		return models.VaRResult{}, &InvalidParameterError{Op: op, Param: "method", Value: string(method)}
	}
	return res, nil
}

// ComputeAllVaR runs every estimator over the same sample.
func ComputeAllVaR(returns []float64, params VaRParams) (map[models.VaRMethod]models.VaRResult, error) {
	out := make(map[models.VaRMethod]models.VaRResult, 3)
	for _, m := range []models.VaRMethod{
		models.VaRHistorical,
		models.VaRParametric,
		models.VaRMonteCarlo,
	} {
		res, err := ComputeVaR(m, returns, params)
		if err != nil {
			return nil, err
		}
		out[m] = res
	}
	return out, nil
}
