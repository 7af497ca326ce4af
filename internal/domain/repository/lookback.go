package repository

// Lookback represents how many trading days of history an analysis reads.
type Lookback string

const (
	LB6M Lookback = "6m"
	LB1Y Lookback = "1y"
	LB2Y Lookback = "2y"
	LB5Y Lookback = "5y"
)

// IsValidLookback returns true if lb is a supported lookback.
func IsValidLookback(lb Lookback) bool {
	switch lb {
	case LB6M, LB1Y, LB2Y, LB5Y:
		return true
	default:
		return false
	}
}

// DefaultLookback returns the default lookback.
func DefaultLookback() Lookback { return LB1Y }

// NormalizeLookback converts a raw string to a valid lookback (or default).
func NormalizeLookback(s string) Lookback {
	if s == "" {
		return DefaultLookback()
	}
	lb := Lookback(s)
	if IsValidLookback(lb) {
		return lb
	}
	return DefaultLookback()
}

// TradingDays maps a lookback to an approximate trading-day count.
func (lb Lookback) TradingDays() int {
	switch lb {
	case LB6M:
		return 126
	case LB2Y:
		return 504
	case LB5Y:
		return 1260
	default:
		return 252
	}
}
