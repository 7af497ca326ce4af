package risk

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
)

type fixedDraws struct{ value float64 }

func (s fixedDraws) Draw(_ *rand.Rand) float64 { return s.value }

func TestProjectConstantReturn(t *testing.T) {
	cfg := ProjectorConfig{InitialValue: 1000, HorizonDays: 3, NumPaths: 8, Seed: 1}
	result, err := Project(fixedDraws{value: 0.01}, cfg)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if result.Median[0] != 1000 {
		t.Errorf("day 0 median = %v, want 1000", result.Median[0])
	}
	want := 1000 * math.Pow(1.01, 3)
	if !closeTo(result.TerminalP50, want, 1e-9) {
		t.Errorf("terminal median = %v, want %v", result.TerminalP50, want)
	}
	// Every path is identical, so the band collapses.
	if !closeTo(result.TerminalP5, want, 1e-9) || !closeTo(result.TerminalP95, want, 1e-9) {
		t.Errorf("band [%v, %v] should collapse to %v", result.TerminalP5, result.TerminalP95, want)
	}
}

func TestProjectDeterministic(t *testing.T) {
	sampler := &NormalDraws{Mean: 0.0005, StdDev: 0.02}
	cfg := ProjectorConfig{InitialValue: 10000, HorizonDays: 30, NumPaths: 500, Seed: 42}
	r1, err := Project(sampler, cfg)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	r2, err := Project(sampler, cfg)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if !reflect.DeepEqual(r1, r2) {
		t.Error("same config produced different projections")
	}
}

func TestProjectBandOrdering(t *testing.T) {
	sampler := &NormalDraws{Mean: 0, StdDev: 0.02}
	cfg := ProjectorConfig{InitialValue: 10000, HorizonDays: 20, NumPaths: 1000, Seed: 7}
	result, err := Project(sampler, cfg)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(result.P5) != cfg.HorizonDays+1 {
		t.Fatalf("expected %d band points, got %d", cfg.HorizonDays+1, len(result.P5))
	}
	for d := 0; d <= cfg.HorizonDays; d++ {
		if result.P5[d] > result.Median[d] || result.Median[d] > result.P95[d] {
			t.Fatalf("day %d: band out of order p5=%v p50=%v p95=%v",
				d, result.P5[d], result.Median[d], result.P95[d])
		}
	}
}

func TestProjectValidation(t *testing.T) {
	sampler := fixedDraws{}
	cases := []ProjectorConfig{
		{InitialValue: 0, HorizonDays: 10, NumPaths: 10, Seed: 1},
		{InitialValue: 1000, HorizonDays: 0, NumPaths: 10, Seed: 1},
		{InitialValue: 1000, HorizonDays: 10, NumPaths: 0, Seed: 1},
		{InitialValue: 1000, HorizonDays: maxHorizonDays + 1, NumPaths: 10, Seed: 1},
		{InitialValue: 1000, HorizonDays: 10, NumPaths: maxPaths + 1, Seed: 1},
	}
	for i, cfg := range cases {
		if _, err := Project(sampler, cfg); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}
