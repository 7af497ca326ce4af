package models

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"
)

func TestMomentReportMarshalInfSortino(t *testing.T) {
	report := MomentReport{
		Mean:    0.001,
		StdDev:  0.02,
		Sharpe:  0.8,
		Sortino: math.Inf(1),
	}
	b, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(b), `"sortino_ratio":null`) {
		t.Fatalf("expected null sortino, got %s", b)
	}
	if !strings.Contains(string(b), `"sharpe_ratio":0.8`) {
		t.Fatalf("expected finite sharpe, got %s", b)
	}
}

func TestMomentReportMarshalNaN(t *testing.T) {
	report := MomentReport{Sharpe: math.NaN(), Sortino: math.NaN()}
	b, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(b), `"sharpe_ratio":null`) {
		t.Fatalf("expected null sharpe, got %s", b)
	}
}

func TestMomentReportRoundTripSentinel(t *testing.T) {
	in := MomentReport{
		Mean:     0.0005,
		StdDev:   0.015,
		Skewness: -0.3,
		Kurtosis: 1.2,
		Sharpe:   1.1,
		Sortino:  math.Inf(1),
		Drawdown: Drawdown{
			MaxDrawdown: -0.12,
			PeakDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			TroughDate:  time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		},
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var out MomentReport
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !math.IsInf(out.Sortino, 1) {
		t.Fatalf("sortino sentinel lost: got %v", out.Sortino)
	}
	if out.Sharpe != in.Sharpe || out.Mean != in.Mean || out.Kurtosis != in.Kurtosis {
		t.Fatalf("finite fields changed: %+v", out)
	}
	if !out.Drawdown.PeakDate.Equal(in.Drawdown.PeakDate) {
		t.Fatalf("drawdown dates changed: %+v", out.Drawdown)
	}
}

func TestRiskReportMarshalWithInfSortino(t *testing.T) {
	report := RiskReport{
		Portfolio:   "default",
		GeneratedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Moments:     MomentReport{Sortino: math.Inf(1)},
	}
	if _, err := json.Marshal(report); err != nil {
		t.Fatalf("report marshal failed: %v", err)
	}
}
