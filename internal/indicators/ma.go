package indicators

import (
	"fmt"

	"github.com/openclaw/stock/internal/contracts"
)

// sma computes a simple moving average over a trailing window. The result is
// absent until the window is filled.
func sma(values []float64, window int) contracts.Series {
	n := len(values)
	out := contracts.AbsentSeries(n)
	if window <= 0 || n < window {
		return out
	}

	out.ValidFrom = window - 1

	var sum float64
	for i := 0; i < window; i++ {
		sum += values[i]
	}
	out.Values[window-1] = sum / float64(window)

	for i := window; i < n; i++ {
		sum += values[i] - values[i-window]
		out.Values[i] = sum / float64(window)
	}

	return out
}

// ema computes an exponential moving average with smoothing 2/(period+1).
// The series is seeded with the first input value rather than an initial
// simple average, so every index is defined; the seeding convention is fixed
// because it affects all downstream values.
func ema(values []float64, period int) contracts.Series {
	n := len(values)
	out := contracts.Series{Values: make([]float64, n), ValidFrom: 0}
	if n == 0 {
		return out
	}

	alpha := 2.0 / float64(period+1)
	out.Values[0] = values[0]
	for i := 1; i < n; i++ {
		out.Values[i] = alpha*values[i] + (1-alpha)*out.Values[i-1]
	}

	return out
}

func (e *Engine) computeMA(series contracts.PriceSeries, set contracts.IndicatorSet) {
	closes := series.Closes()
	for _, window := range e.cfg.MAWindows {
		set[maName(window)] = sma(closes, window)
	}
}

func maName(window int) string {
	return fmt.Sprintf("ma%d", window)
}
