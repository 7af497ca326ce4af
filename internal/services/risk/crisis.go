package risk

import (
	"time"

	"RiskLens/internal/domain/models"
)

// CrisisWindow names a historical stress period to replay.
type CrisisWindow struct {
	Name  string
	Start time.Time
	End   time.Time
}

// AnalyzeCrisis slices the portfolio return series to a stress window
// and measures how the portfolio behaved against a reference VaR
// estimated from the full series.
func AnalyzeCrisis(returns models.ReturnSeries, window CrisisWindow, referenceVaR float64) (models.CrisisReport, error) {
	const op = "risk.AnalyzeCrisis"
	if !window.End.After(window.Start) {
		return models.CrisisReport{}, &InvalidParameterError{Op: op, Param: "window", Value: window.Name}
	}

	report := models.CrisisReport{
		Name:         window.Name,
		Start:        window.Start,
		End:          window.End,
		ReferenceVaR: referenceVaR,
	}

	cumulative := 1.0
	worst := 0.0
	var worstDay time.Time
	for i, d := range returns.Dates {
		if d.Before(window.Start) || d.After(window.End) {
			continue
		}
		r := returns.Values[i]
		report.Observations++
		cumulative *= 1 + r
		if report.Observations == 1 || r < worst {
			worst = r
			worstDay = d
		}
		if r < referenceVaR {
			report.Violations++
		}
	}
	if report.Observations == 0 {
		return models.CrisisReport{}, &EmptyWindowError{Op: op, Start: window.Start, End: window.End}
	}

	report.WorstDailyReturn = worst
	report.WorstDay = worstDay
	report.CumulativeReturn = cumulative - 1
	if referenceVaR < 0 {
		report.ExceededSeverity = worst / referenceVaR
	}
	return report, nil
}

// AnalyzeCrises runs every configured window, skipping ones that do not
// overlap the available history.
func AnalyzeCrises(returns models.ReturnSeries, windows []CrisisWindow, referenceVaR float64) ([]models.CrisisReport, error) {
	reports := make([]models.CrisisReport, 0, len(windows))
	for _, w := range windows {
		report, err := AnalyzeCrisis(returns, w, referenceVaR)
		if err != nil {
			if _, ok := err.(*EmptyWindowError); ok {
				continue
			}
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
