package repository

import "testing"

func TestNormalizeLookback(t *testing.T) {
	cases := []struct {
		in   string
		want Lookback
	}{
		{"", LB1Y},
		{"6m", LB6M},
		{"1y", LB1Y},
		{"2y", LB2Y},
		{"5y", LB5Y},
		{"10y", LB1Y},
		{"garbage", LB1Y},
	}
	for _, c := range cases {
		if got := NormalizeLookback(c.in); got != c.want {
			t.Errorf("NormalizeLookback(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTradingDays(t *testing.T) {
	cases := []struct {
		lb   Lookback
		want int
	}{
		{LB6M, 126},
		{LB1Y, 252},
		{LB2Y, 504},
		{LB5Y, 1260},
	}
	for _, c := range cases {
		if got := c.lb.TradingDays(); got != c.want {
			t.Errorf("%q.TradingDays() = %d, want %d", c.lb, got, c.want)
		}
	}
}
