package models

import "time"

// PriceBar represents one daily OHLCV bar as delivered by a price provider
// or an upstream ingestion topic.
type PriceBar struct {
	Symbol string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}
