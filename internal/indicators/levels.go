package indicators

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/pkg/logger"
)

// SRMethod selects the support/resistance derivation method.
type SRMethod string

const (
	SRFibonacci  SRMethod = "fibonacci"
	SRPivot      SRMethod = "pivot"
	SRMovingAvg  SRMethod = "ma"
	SRHistorical SRMethod = "historical"
)

// SupportResistance is the outcome of one support/resistance derivation.
// Support levels are ordered nearest-below-price first, resistance levels
// nearest-above-price first.
type SupportResistance struct {
	Symbol           string    `json:"symbol"`
	CurrentPrice     float64   `json:"current_price"`
	Method           SRMethod  `json:"method"`
	Lookback         int       `json:"lookback"`
	PivotPoint       float64   `json:"pivot_point"`
	SupportLevels    []float64 `json:"support_levels"`
	ResistanceLevels []float64 `json:"resistance_levels"`
	Recommendation   string    `json:"recommendation"`
}

// SupportResistanceCalculator derives support and resistance price bands
// from a price series.
type SupportResistanceCalculator struct {
	logger *logger.Logger

	// ExtremaRadius is the neighborhood half-width for the historical
	// method; a bar is an extremum when it is the max/min within the
	// radius on both sides.
	ExtremaRadius int
	// DedupTolerance merges historical levels closer than this fraction
	// of the current price.
	DedupTolerance float64
	// NearTolerance bounds "near a level" for the recommendation text.
	NearTolerance float64
}

// NewSupportResistanceCalculator creates a calculator with default
// tolerances.
func NewSupportResistanceCalculator(log *logger.Logger) *SupportResistanceCalculator {
	return &SupportResistanceCalculator{
		logger:         log,
		ExtremaRadius:  3,
		DedupTolerance: 0.01,
		NearTolerance:  0.01,
	}
}

// Calculate derives levels over the trailing lookback window.
func (c *SupportResistanceCalculator) Calculate(ctx context.Context, symbol string, series contracts.PriceSeries, method SRMethod, lookback int) (SupportResistance, error) {
	if lookback <= 0 {
		lookback = 60
	}
	if len(series) < lookback {
		return SupportResistance{}, fmt.Errorf("support/resistance for %s needs %d bars, have %d: %w",
			symbol, lookback, len(series), contracts.ErrInsufficientHistory)
	}

	window := series[len(series)-lookback:]
	price := series[len(series)-1].Close

	high := window[0].High
	low := window[0].Low
	for _, bar := range window {
		if bar.High > high {
			high = bar.High
		}
		if bar.Low < low {
			low = bar.Low
		}
	}
	pivot := (high + low + price) / 3

	result := SupportResistance{
		Symbol:       symbol,
		CurrentPrice: round2(price),
		Method:       method,
		Lookback:     lookback,
		PivotPoint:   round2(pivot),
	}

	var supports, resistances []float64
	switch method {
	case SRFibonacci:
		supports, resistances = fibonacciLevels(high, low)
	case SRPivot:
		supports, resistances = pivotLevels(pivot, high, low)
	case SRMovingAvg:
		supports, resistances = c.movingAverageLevels(series, price)
	case SRHistorical:
		supports, resistances = c.historicalLevels(window, price)
	default:
		return SupportResistance{}, fmt.Errorf("unsupported support/resistance method %q", method)
	}

	// Nearest level first on both sides, positive prices only.
	supports = keepPositive(supports)
	resistances = keepPositive(resistances)
	sort.Sort(sort.Reverse(sort.Float64Slice(supports)))
	sort.Float64s(resistances)

	result.SupportLevels = supports
	result.ResistanceLevels = resistances
	result.Recommendation = c.recommend(price, supports, resistances)

	c.logger.WithFields(map[string]interface{}{
		"symbol":      symbol,
		"method":      string(method),
		"supports":    len(supports),
		"resistances": len(resistances),
	}).Debug("Calculated support/resistance levels")

	return result, nil
}

// fibonacciLevels anchors retracement supports from the window high and
// extension resistances from the window low.
func fibonacciLevels(high, low float64) (supports, resistances []float64) {
	diff := high - low
	for _, r := range []float64{0.236, 0.382, 0.5, 0.618, 0.786} {
		supports = append(supports, round2(high-r*diff))
	}
	for _, e := range []float64{1.0, 1.236, 1.382, 1.5, 1.618} {
		resistances = append(resistances, round2(low+e*diff))
	}
	return supports, resistances
}

// pivotLevels uses the classic floor-trader offsets from the pivot point.
func pivotLevels(pivot, high, low float64) (supports, resistances []float64) {
	supports = []float64{
		round2(2*pivot - high),
		round2(pivot - (high - low)),
		round2(low - 2*(high-pivot)),
	}
	resistances = []float64{
		round2(2*pivot - low),
		round2(pivot + (high - low)),
		round2(high + 2*(pivot-low)),
	}
	return supports, resistances
}

// movingAverageLevels reclassifies each computed MA as dynamic support when
// it sits below the current price and dynamic resistance when above.
func (c *SupportResistanceCalculator) movingAverageLevels(series contracts.PriceSeries, price float64) (supports, resistances []float64) {
	closes := series.Closes()
	for _, window := range []int{5, 10, 20, 60} {
		ma := sma(closes, window)
		v, ok := ma.Last()
		if !ok {
			continue
		}
		if v <= price {
			supports = append(supports, round2(v))
		} else {
			resistances = append(resistances, round2(v))
		}
	}
	return supports, resistances
}

// historicalLevels collects local extrema within the lookback window: a bar
// is an extremum when it is the strict max/min of its symmetric
// neighborhood. Levels within the dedup tolerance of one another collapse to
// the first seen.
func (c *SupportResistanceCalculator) historicalLevels(window contracts.PriceSeries, price float64) (supports, resistances []float64) {
	radius := c.ExtremaRadius
	tol := c.DedupTolerance * price

	for i := radius; i < len(window)-radius; i++ {
		isMax, isMin := true, true
		for w := i - radius; w <= i+radius; w++ {
			if w == i {
				continue
			}
			if window[w].High >= window[i].High {
				isMax = false
			}
			if window[w].Low <= window[i].Low {
				isMin = false
			}
		}
		if isMax {
			resistances = appendDeduped(resistances, round2(window[i].High), tol)
		}
		if isMin {
			supports = appendDeduped(supports, round2(window[i].Low), tol)
		}
	}
	return supports, resistances
}

func appendDeduped(levels []float64, level, tol float64) []float64 {
	for _, existing := range levels {
		if math.Abs(existing-level) <= tol {
			return levels
		}
	}
	return append(levels, level)
}

// recommend produces the qualitative position tag. Thresholds are fixed
// presentation heuristics, not a statistical model.
func (c *SupportResistanceCalculator) recommend(price float64, supports, resistances []float64) string {
	below := firstAtOrBelow(supports, price)
	above := firstAtOrAbove(resistances, price)

	switch {
	case len(supports) > 0 && price < supports[len(supports)-1]:
		return "price below key support, stand aside or stop out"
	case len(resistances) > 0 && price > resistances[len(resistances)-1]:
		return "price above key resistance, possible breakout"
	case below > 0 && (price-below)/price <= c.NearTolerance:
		return "near support, watch for a bounce"
	case above > 0 && (above-price)/price <= c.NearTolerance:
		return "near resistance, watch for rejection"
	default:
		return "ranging between support and resistance"
	}
}

func firstAtOrBelow(levels []float64, price float64) float64 {
	for _, l := range levels {
		if l <= price {
			return l
		}
	}
	return 0
}

func firstAtOrAbove(levels []float64, price float64) float64 {
	for _, l := range levels {
		if l >= price {
			return l
		}
	}
	return 0
}

func keepPositive(levels []float64) []float64 {
	out := levels[:0]
	for _, l := range levels {
		if l > 0 {
			out = append(out, l)
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
