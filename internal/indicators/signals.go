package indicators

import (
	"github.com/openclaw/stock/internal/contracts"
)

// Oscillator readings use the chart-convention extremes here; alert
// thresholds are configured separately.
const (
	kdjOverbought = 80.0
	kdjOversold   = 20.0
	rsiOverbought = 80.0
	rsiOversold   = 20.0
	surgeRatio    = 1.5
)

// DeriveSignals reads the latest bar of an indicator set into qualitative
// signals. Readings whose inputs are still warming up stay at their zero
// (neutral) value.
func DeriveSignals(set contracts.IndicatorSet, series contracts.PriceSeries) contracts.TechnicalSignals {
	signals := contracts.TechnicalSignals{}

	last, ok := series.Last()
	if !ok {
		return signals
	}
	close := last.Close

	if dif, ok1 := set.Get(contracts.IndMACDDif); ok1 {
		if dea, ok2 := set.Get(contracts.IndMACDDea); ok2 {
			signals.MACDCross = LatestCross(dif, dea)
		}
	}

	ma5Series, hasMA5 := set.Get(contracts.IndMA5)
	ma20Series, hasMA20 := set.Get(contracts.IndMA20)
	if hasMA5 && hasMA20 {
		signals.MACross = LatestCross(ma5Series, ma20Series)

		ma5, ok1 := ma5Series.Last()
		ma20, ok2 := ma20Series.Last()
		if ok1 && ok2 {
			signals.MABullish = ma5 > ma20 && close > ma5
			signals.MABearish = ma5 < ma20 && close < ma5
		}
	}

	if k, ok1 := set.LastValue(contracts.IndKDJK); ok1 {
		if d, ok2 := set.LastValue(contracts.IndKDJD); ok2 {
			switch {
			case k > kdjOverbought && d > kdjOverbought:
				signals.KDJ = contracts.Overbought
			case k < kdjOversold && d < kdjOversold:
				signals.KDJ = contracts.Oversold
			}
		}
	}

	if rsi6, ok := set.LastValue(contracts.IndRSI6); ok {
		switch {
		case rsi6 > rsiOverbought:
			signals.RSI = contracts.Overbought
		case rsi6 < rsiOversold:
			signals.RSI = contracts.Oversold
		}
	}

	if upper, ok1 := set.LastValue(contracts.IndBollUpper); ok1 {
		if lower, ok2 := set.LastValue(contracts.IndBollLower); ok2 {
			switch {
			case close > upper:
				signals.Boll = contracts.BreakoutUp
			case close < lower:
				signals.Boll = contracts.BreakoutDown
			}
		}
	}

	signals.Trend = DetectTrend(set, series)

	if ratio, ok := set.LastValue(contracts.IndVolRatio); ok {
		signals.VolumeSurge = ratio >= surgeRatio
	}

	signals.Overall = overallVote(signals)
	return signals
}

// DetectTrend classifies the moving-average ordering: MA5 > MA20 > MA60 is
// an uptrend, the inverse a downtrend, anything else sideways. Short series
// fall back to MA20 for the long leg; fewer than 20 bars reads unknown.
func DetectTrend(set contracts.IndicatorSet, series contracts.PriceSeries) contracts.Trend {
	ma5, ok1 := set.LastValue(contracts.IndMA5)
	ma20, ok2 := set.LastValue(contracts.IndMA20)
	if !ok1 || !ok2 {
		return contracts.TrendUnknown
	}

	ma60, ok3 := set.LastValue(contracts.IndMA60)
	if !ok3 {
		ma60 = ma20
	}

	switch {
	case ma5 > ma20 && ma20 > ma60:
		return contracts.Uptrend
	case ma5 < ma20 && ma20 < ma60:
		return contracts.Downtrend
	default:
		return contracts.Sideways
	}
}

// overallVote aggregates individual readings into a buy/sell leaning. A
// non-overheated KDJ counts toward the bullish side, so the bullish vote
// reads as "momentum signal confirmed while the oscillator still has room".
func overallVote(s contracts.TechnicalSignals) contracts.OverallSignal {
	bullish := 0
	if s.MACDCross == contracts.GoldenCross {
		bullish++
	}
	if s.KDJ != contracts.Overbought {
		bullish++
	}
	if s.MABullish {
		bullish++
	}
	if s.Boll == contracts.BreakoutUp {
		bullish++
	}

	bearish := 0
	if s.MACDCross == contracts.DeathCross {
		bearish++
	}
	if s.KDJ == contracts.Overbought {
		bearish++
	}
	if s.MABearish {
		bearish++
	}
	if s.Boll == contracts.BreakoutDown {
		bearish++
	}

	switch {
	case bullish >= 3:
		return contracts.SignalStrongBuy
	case bullish >= 2:
		return contracts.SignalBuy
	case bearish >= 3:
		return contracts.SignalStrongSell
	case bearish >= 2:
		return contracts.SignalSell
	default:
		return contracts.SignalNeutral
	}
}
