package indicators

import (
	"math"

	"github.com/openclaw/stock/internal/contracts"
)

// computeBollinger produces the UPPER/MID/LOWER band triplet: MID is the
// window SMA of close, the outer bands sit StdDev population standard
// deviations away.
func (e *Engine) computeBollinger(series contracts.PriceSeries, set contracts.IndicatorSet) {
	closes := series.Closes()
	n := len(closes)
	window := e.cfg.BollWindow

	mid := sma(closes, window)
	upper := contracts.AbsentSeries(n)
	lower := contracts.AbsentSeries(n)
	upper.ValidFrom = mid.ValidFrom
	lower.ValidFrom = mid.ValidFrom

	for i := mid.ValidFrom; i < n; i++ {
		mean := mid.Values[i]
		var sumSq float64
		for w := i - window + 1; w <= i; w++ {
			diff := closes[w] - mean
			sumSq += diff * diff
		}
		std := math.Sqrt(sumSq / float64(window))
		upper.Values[i] = mean + e.cfg.BollStdDev*std
		lower.Values[i] = mean - e.cfg.BollStdDev*std
	}

	set[contracts.IndBollUpper] = upper
	set[contracts.IndBollMid] = mid
	set[contracts.IndBollLower] = lower
}
