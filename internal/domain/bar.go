package domain

import "time"

// Bar is one OHLCV aggregate over the half-open window [Start, End).
type Bar struct {
	Start  time.Time `json:"bar_start"`
	End    time.Time `json:"bar_end"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}
