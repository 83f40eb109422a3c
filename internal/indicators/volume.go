package indicators

import (
	"github.com/openclaw/stock/internal/contracts"
)

// computeVolume produces the short/long volume SMAs and the volume ratio
// (current volume over the short SMA).
func (e *Engine) computeVolume(series contracts.PriceSeries, set contracts.IndicatorSet) {
	volumes := series.Volumes()
	n := len(volumes)

	volShort := sma(volumes, e.cfg.VolShort)
	volLong := sma(volumes, e.cfg.VolLong)

	ratio := contracts.AbsentSeries(n)
	ratio.ValidFrom = volShort.ValidFrom
	for i := volShort.ValidFrom; i < n; i++ {
		if volShort.Values[i] != 0 {
			ratio.Values[i] = volumes[i] / volShort.Values[i]
		}
	}

	set[contracts.IndVolMA5] = volShort
	set[contracts.IndVolMA10] = volLong
	set[contracts.IndVolRatio] = ratio
}
