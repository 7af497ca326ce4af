package risk

import (
	"math/rand"
	"runtime"
	"sync"

	"RiskLens/internal/domain/models"
)

// ProjectorConfig controls a forward simulation of portfolio value.
type ProjectorConfig struct {
	InitialValue float64
	HorizonDays  int
	NumPaths     int
	Seed         int64
}

const (
	maxHorizonDays = 3650
	maxPaths       = 1_000_000
)

func (c ProjectorConfig) validate() error {
	const op = "risk.Project"
	if c.InitialValue <= 0 {
		return &InvalidParameterError{Op: op, Param: "initialValue", Value: c.InitialValue}
	}
	if c.HorizonDays <= 0 || c.HorizonDays > maxHorizonDays {
		return &InvalidParameterError{Op: op, Param: "horizonDays", Value: c.HorizonDays}
	}
	if c.NumPaths <= 0 || c.NumPaths > maxPaths {
		return &InvalidParameterError{Op: op, Param: "numPaths", Value: c.NumPaths}
	}
	return nil
}

// Project simulates NumPaths independent value paths of HorizonDays
// compounded daily returns drawn from the sampler, then summarizes the
// cross-path distribution per day. Each path gets its own generator
// seeded from (Seed, path index), so the output is deterministic for a
// given config regardless of scheduling.
func Project(sampler Sampler, cfg ProjectorConfig) (models.ProjectionResult, error) {
	if err := cfg.validate(); err != nil {
		return models.ProjectionResult{}, err
	}

	// paths[p][d] is the value of path p after d days; day 0 is the
	// initial investment.
	paths := make([][]float64, cfg.NumPaths)

	workers := runtime.GOMAXPROCS(0)
	if workers > cfg.NumPaths {
		workers = cfg.NumPaths
	}
	var wg sync.WaitGroup
	pathCh := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range pathCh {
				rng := rand.New(rand.NewSource(cfg.Seed + int64(p)))
				path := make([]float64, cfg.HorizonDays+1)
				path[0] = cfg.InitialValue
				for d := 1; d <= cfg.HorizonDays; d++ {
					path[d] = path[d-1] * (1 + sampler.Draw(rng))
				}
				paths[p] = path
			}
		}()
	}
	for p := 0; p < cfg.NumPaths; p++ {
		pathCh <- p
	}
	close(pathCh)
	wg.Wait()

	result := models.ProjectionResult{
		InitialValue: cfg.InitialValue,
		HorizonDays:  cfg.HorizonDays,
		NumPaths:     cfg.NumPaths,
		P5:           make([]float64, cfg.HorizonDays+1),
		Median:       make([]float64, cfg.HorizonDays+1),
		P95:          make([]float64, cfg.HorizonDays+1),
	}

	day := make([]float64, cfg.NumPaths)
	for d := 0; d <= cfg.HorizonDays; d++ {
		for p := 0; p < cfg.NumPaths; p++ {
			day[p] = paths[p][d]
		}
		p5, err := Percentile(day, 0.05)
		if err != nil {
			return models.ProjectionResult{}, err
		}
		p50, err := Percentile(day, 0.50)
		if err != nil {
			return models.ProjectionResult{}, err
		}
		p95, err := Percentile(day, 0.95)
		if err != nil {
			return models.ProjectionResult{}, err
		}
		result.P5[d] = p5
		result.Median[d] = p50
		result.P95[d] = p95
	}
	result.TerminalP5 = result.P5[cfg.HorizonDays]
	result.TerminalP50 = result.Median[cfg.HorizonDays]
	result.TerminalP95 = result.P95[cfg.HorizonDays]
	return result, nil
}
