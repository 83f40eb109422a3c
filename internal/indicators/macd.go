package indicators

import (
	"github.com/openclaw/stock/internal/contracts"
)

// computeMACD produces DIF (fast EMA minus slow EMA), DEA (signal EMA of
// DIF) and HIST = 2 * (DIF - DEA). With first-value EMA seeding the triplet
// is defined from the first bar.
func (e *Engine) computeMACD(series contracts.PriceSeries, set contracts.IndicatorSet) {
	closes := series.Closes()
	n := len(closes)

	emaFast := ema(closes, e.cfg.MACDFast)
	emaSlow := ema(closes, e.cfg.MACDSlow)

	dif := contracts.Series{Values: make([]float64, n), ValidFrom: 0}
	for i := 0; i < n; i++ {
		dif.Values[i] = emaFast.Values[i] - emaSlow.Values[i]
	}

	dea := ema(dif.Values, e.cfg.MACDSignal)

	hist := contracts.Series{Values: make([]float64, n), ValidFrom: 0}
	for i := 0; i < n; i++ {
		hist.Values[i] = 2 * (dif.Values[i] - dea.Values[i])
	}

	set[contracts.IndMACDDif] = dif
	set[contracts.IndMACDDea] = dea
	set[contracts.IndMACDHist] = hist
}
