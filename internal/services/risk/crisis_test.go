package risk

import (
	"testing"
)

func TestAnalyzeCrisisKnownWindow(t *testing.T) {
	rs := series(0, 0.01, -0.04, -0.08, 0.02, 0.01, 0.03)
	window := CrisisWindow{Name: "selloff", Start: day(1), End: day(3)}
	report, err := AnalyzeCrisis(rs, window, -0.05)
	if err != nil {
		t.Fatalf("AnalyzeCrisis: %v", err)
	}
	if report.Observations != 3 {
		t.Fatalf("observations = %d, want 3", report.Observations)
	}
	if !closeTo(report.WorstDailyReturn, -0.08, 1e-12) {
		t.Errorf("worst return = %v, want -0.08", report.WorstDailyReturn)
	}
	if !report.WorstDay.Equal(day(2)) {
		t.Errorf("worst day = %v, want %v", report.WorstDay, day(2))
	}
	want := 0.96*0.92*1.02 - 1
	if !closeTo(report.CumulativeReturn, want, 1e-12) {
		t.Errorf("cumulative = %v, want %v", report.CumulativeReturn, want)
	}
	// Only the -8% day breaches the -5% reference VaR.
	if report.Violations != 1 {
		t.Errorf("violations = %d, want 1", report.Violations)
	}
	if !closeTo(report.ExceededSeverity, 1.6, 1e-12) {
		t.Errorf("severity = %v, want 1.6", report.ExceededSeverity)
	}
}

func TestAnalyzeCrisisEmptyWindow(t *testing.T) {
	rs := series(0, 0.01, -0.02)
	window := CrisisWindow{Name: "out of range", Start: day(100), End: day(110)}
	if _, err := AnalyzeCrisis(rs, window, -0.05); err == nil {
		t.Fatal("expected error for window outside the series")
	} else if _, ok := err.(*EmptyWindowError); !ok {
		t.Fatalf("expected EmptyWindowError, got %T", err)
	}
}

func TestAnalyzeCrisisInvalidWindow(t *testing.T) {
	rs := series(0, 0.01, -0.02)
	window := CrisisWindow{Name: "inverted", Start: day(5), End: day(1)}
	if _, err := AnalyzeCrisis(rs, window, -0.05); err == nil {
		t.Fatal("expected error for inverted window")
	}
}

func TestAnalyzeCrisesSkipsEmpty(t *testing.T) {
	rs := series(0, 0.01, -0.04, 0.02, 0.01)
	windows := []CrisisWindow{
		{Name: "covered", Start: day(0), End: day(3)},
		{Name: "ancient", Start: day(-500), End: day(-400)},
	}
	reports, err := AnalyzeCrises(rs, windows, -0.05)
	if err != nil {
		t.Fatalf("AnalyzeCrises: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if reports[0].Name != "covered" {
		t.Errorf("report name = %s, want covered", reports[0].Name)
	}
}
