package indicators

import (
	"fmt"

	"github.com/openclaw/stock/internal/contracts"
)

// computeRSI produces one series per configured window using Wilder's
// smoothing: the first average gain/loss is a simple mean over the window's
// price changes, after which avg = (prev*(n-1) + current) / n. A window of
// pure gains (avg loss zero) reads 100, never NaN.
func (e *Engine) computeRSI(series contracts.PriceSeries, set contracts.IndicatorSet) {
	closes := series.Closes()
	for _, window := range e.cfg.RSIWindows {
		set[rsiName(window)] = rsi(closes, window)
	}
}

func rsi(closes []float64, period int) contracts.Series {
	n := len(closes)
	out := contracts.AbsentSeries(n)
	if period <= 0 || n <= period {
		return out
	}

	out.ValidFrom = period

	var gainSum, lossSum float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gainSum += change
		} else {
			lossSum += -change
		}
	}

	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	out.Values[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out.Values[i] = rsiValue(avgGain, avgLoss)
	}

	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

func rsiName(window int) string {
	return fmt.Sprintf("rsi%d", window)
}
