package models

import "time"

// DemandLevel is a three-way reading of recent price movement.
type DemandLevel string

const (
	DemandHigh   DemandLevel = "High"
	DemandMedium DemandLevel = "Medium"
	DemandLow    DemandLevel = "Low"
)

// Rank orders levels High, Medium, Low.
func (l DemandLevel) Rank() int {
	switch l {
	case DemandHigh:
		return 0
	case DemandMedium:
		return 1
	default:
		return 2
	}
}

// DemandSignal is derived per request and never stored.
type DemandSignal struct {
	Category            string      `json:"vegetable"`
	Level               DemandLevel `json:"demand"`
	PercentChange       float64     `json:"percent_change"`
	WindowLabel         string      `json:"window"`
	RepresentativePrice float64     `json:"price"`
}

// TrendPoint is one dated wholesale observation inside a trend window.
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// Trend is the price history of one vegetable over one month.
type Trend struct {
	Category      string        `json:"vegetable"`
	WindowLabel   string        `json:"window"`
	Points        []TrendPoint  `json:"points"`
	Records       []PriceRecord `json:"records"`
	PercentChange float64       `json:"percent_change"`
	Signal        *DemandSignal `json:"signal,omitempty"`
}
