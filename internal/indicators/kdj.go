package indicators

import (
	"github.com/openclaw/stock/internal/contracts"
)

// computeKDJ produces the K/D/J triplet from a stochastic RSV over the N-bar
// window. RSV = (close - lowestLow) / (highestHigh - lowestLow) * 100, read
// as 50 when the window is flat. K smooths RSV and D smooths K, both with
// factor 1/M seeded on the first defined RSV. J = 3K - 2D.
func (e *Engine) computeKDJ(series contracts.PriceSeries, set contracts.IndicatorSet) {
	n := len(series)
	k := contracts.AbsentSeries(n)
	d := contracts.AbsentSeries(n)
	j := contracts.AbsentSeries(n)

	window := e.cfg.KDJN
	if window > 0 && n >= window {
		highs := series.Highs()
		lows := series.Lows()
		closes := series.Closes()

		start := window - 1
		k.ValidFrom, d.ValidFrom, j.ValidFrom = start, start, start

		alphaK := 1.0 / float64(e.cfg.KDJM1)
		alphaD := 1.0 / float64(e.cfg.KDJM2)

		var prevK, prevD float64
		for i := start; i < n; i++ {
			hh, ll := highs[i], lows[i]
			for w := i - window + 1; w < i; w++ {
				if highs[w] > hh {
					hh = highs[w]
				}
				if lows[w] < ll {
					ll = lows[w]
				}
			}

			rsv := 50.0
			if hh != ll {
				rsv = (closes[i] - ll) / (hh - ll) * 100
			}

			if i == start {
				prevK = rsv
				prevD = rsv
			} else {
				prevK = alphaK*rsv + (1-alphaK)*prevK
				prevD = alphaD*prevK + (1-alphaD)*prevD
			}

			k.Values[i] = prevK
			d.Values[i] = prevD
			j.Values[i] = 3*prevK - 2*prevD
		}
	}

	set[contracts.IndKDJK] = k
	set[contracts.IndKDJD] = d
	set[contracts.IndKDJJ] = j
}
