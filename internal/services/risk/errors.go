package risk

import (
	"fmt"
	"time"
)

// The error types below are raised at the boundary of the offending
// operation and carry the literal inputs that violated the precondition.
// Retrying belongs to the calling layer, never here.

// InsufficientDataError reports too few observations for a statistic or window.
type InsufficientDataError struct {
	Op   string
	Need int
	Got  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need at least %d observations, got %d", e.Op, e.Need, e.Got)
}

// InvalidParameterError reports an out-of-range parameter.
type InvalidParameterError struct {
	Op    string
	Param string
	Value interface{}
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: invalid parameter %s=%v", e.Op, e.Param, e.Value)
}

// MisalignedSeriesError reports a date/length mismatch across instrument series.
type MisalignedSeriesError struct {
	Op     string
	Symbol string
	Detail string
}

func (e *MisalignedSeriesError) Error() string {
	return fmt.Sprintf("%s: series %q misaligned: %s", e.Op, e.Symbol, e.Detail)
}

// EmptyTailError reports that no observations fell at or below the VaR
// threshold when computing historical CVaR.
type EmptyTailError struct {
	Op        string
	Threshold float64
	Sample    int
}

func (e *EmptyTailError) Error() string {
	return fmt.Sprintf("%s: no observations at or below VaR threshold %.6f (sample size %d)", e.Op, e.Threshold, e.Sample)
}

// SingularCovarianceError reports a covariance matrix that is not positive
// definite, typically caused by duplicate or perfectly correlated series.
type SingularCovarianceError struct {
	Op  string
	Dim int
}

func (e *SingularCovarianceError) Error() string {
	return fmt.Sprintf("%s: covariance matrix (%dx%d) is not positive definite", e.Op, e.Dim, e.Dim)
}

// EmptyWindowError reports a crisis window that selects zero observations.
type EmptyWindowError struct {
	Op    string
	Start time.Time
	End   time.Time
}

func (e *EmptyWindowError) Error() string {
	return fmt.Sprintf("%s: no observations in window [%s, %s]",
		e.Op, e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// DataSourceError reports missing, empty, or malformed upstream data.
type DataSourceError struct {
	Op     string
	Source string
	Err    error
}

func (e *DataSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: data source %s: %v", e.Op, e.Source, e.Err)
	}
	return fmt.Sprintf("%s: data source %s unavailable", e.Op, e.Source)
}

func (e *DataSourceError) Unwrap() error { return e.Err }
