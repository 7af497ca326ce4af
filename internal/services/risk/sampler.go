package risk

import (
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// Sampler produces one synthetic daily return per call. Implementations
// must be safe for use from a single goroutine holding its own rng.
type Sampler interface {
	Draw(rng *rand.Rand) float64
}

// NormalDraws samples from a Gaussian fitted to the historical series.
type NormalDraws struct {
	Mean   float64
	StdDev float64
}

// FitNormal estimates sampling parameters from observed returns.
func FitNormal(returns []float64) (*NormalDraws, error) {
	if len(returns) < 2 {
		return nil, &InsufficientDataError{Op: "risk.FitNormal", Need: 2, Got: len(returns)}
	}
	return &NormalDraws{
		Mean:   stat.Mean(returns, nil),
		StdDev: stat.StdDev(returns, nil),
	}, nil
}

func (s *NormalDraws) Draw(rng *rand.Rand) float64 {
	return s.Mean + s.StdDev*rng.NormFloat64()
}

// BootstrapDraws resamples observed returns with replacement, keeping
// the empirical distribution's fat tails.
type BootstrapDraws struct {
	Returns []float64
}

func NewBootstrapDraws(returns []float64) (*BootstrapDraws, error) {
	if len(returns) < 2 {
		return nil, &InsufficientDataError{Op: "risk.NewBootstrapDraws", Need: 2, Got: len(returns)}
	}
	return &BootstrapDraws{Returns: returns}, nil
}

func (s *BootstrapDraws) Draw(rng *rand.Rand) float64 {
	return s.Returns[rng.Intn(len(s.Returns))]
}
