package models

// Requests for risk HTTP endpoints. Defined in domain for consistency and reuse.

type ReportRequest struct {
	Confidence float64 `query:"confidence" json:"confidence" default:"0.95" validate:"gt=0,lt=1"`
	Lookback   int     `query:"lookback" json:"lookback" default:"504" validate:"gte=30,lte=5000"`
	Refresh    bool    `query:"refresh" json:"refresh"`
}

type VaRRequest struct {
	Method     string  `query:"method" json:"method" default:"historical" validate:"oneof=historical parametric monte_carlo all"`
	Confidence float64 `query:"confidence" json:"confidence" default:"0.95" validate:"gt=0,lt=1"`
	Lookback   int     `query:"lookback" json:"lookback" default:"504" validate:"gte=30,lte=5000"`
}

type MomentsRequest struct {
	Lookback int `query:"lookback" json:"lookback" default:"504" validate:"gte=30,lte=5000"`
}

type ProjectionRequest struct {
	Lookback int `query:"lookback" json:"lookback" default:"504" validate:"gte=30,lte=5000"`
	Horizon  int `query:"horizon" json:"horizon" default:"30" validate:"gte=1,lte=365"`
	Paths    int `query:"paths" json:"paths" default:"1000" validate:"gte=10,lte=100000"`
}

type DecompositionRequest struct {
	Lookback int `query:"lookback" json:"lookback" default:"504" validate:"gte=30,lte=5000"`
}

type CrisisRequest struct {
	Name string `query:"name" json:"name"`
}

type BacktestRequest struct {
	Window    int     `query:"window" json:"window" default:"252" validate:"gte=30,lte=2520"`
	Tolerance float64 `query:"tolerance" json:"tolerance" default:"0.02" validate:"gt=0,lt=0.5"`
	Method    string  `query:"method" json:"method" default:"historical" validate:"oneof=historical parametric monte_carlo"`
}
