package contracts

import (
	"fmt"
	"time"
)

// PriceBar is a single OHLCV bar. Bars are immutable once produced by the
// data source.
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// PriceSeries is an ordered bar sequence with strictly increasing timestamps.
type PriceSeries []PriceBar

// Validate checks ordering and duplicate timestamps.
func (s PriceSeries) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i].Timestamp.After(s[i-1].Timestamp) {
			return fmt.Errorf("price series not strictly increasing at index %d (%s -> %s)",
				i, s[i-1].Timestamp.Format("2006-01-02"), s[i].Timestamp.Format("2006-01-02"))
		}
	}
	return nil
}

// Closes extracts the close column.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high column.
func (s PriceSeries) Highs() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low column.
func (s PriceSeries) Lows() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Low
	}
	return out
}

// Volumes extracts the volume column as float64 for rolling math.
func (s PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = float64(b.Volume)
	}
	return out
}

// Last returns the most recent bar.
func (s PriceSeries) Last() (PriceBar, bool) {
	if len(s) == 0 {
		return PriceBar{}, false
	}
	return s[len(s)-1], true
}

// Quote is a point-in-time snapshot of a traded security.
type Quote struct {
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	ChangePct    float64   `json:"change_pct"`
	Volume       int64     `json:"volume"`
	TurnoverRate float64   `json:"turnover_rate"`
	Timestamp    time.Time `json:"timestamp"`
}

// CapitalFlowSnapshot aggregates investor flow over a lookback window of
// trading days. Amounts are in the market's base currency unit.
type CapitalFlowSnapshot struct {
	Symbol          string  `json:"symbol"`
	Days            int     `json:"days"`
	MainForceInflow float64 `json:"main_force_inflow"`
	RetailInflow    float64 `json:"retail_inflow"`
	NetInflow       float64 `json:"net_inflow"`
}

// SectorSentiment carries sector co-movement inputs for short-term scoring.
type SectorSentiment struct {
	Sector          string  `json:"sector"`
	SectorChangePct float64 `json:"sector_change_pct"`
	LimitUpCount    int     `json:"limit_up_count"` // same-sector limit-up events on the date
}

// NewsSnapshot carries collaborator-supplied news tags. News detection itself
// happens upstream; the core only consumes the tags.
type NewsSnapshot struct {
	Symbol       string   `json:"symbol"`
	PositiveTags []string `json:"positive_tags"`
}

// HasPositive reports whether any qualifying positive tag is present.
func (n NewsSnapshot) HasPositive() bool {
	return len(n.PositiveTags) > 0
}
