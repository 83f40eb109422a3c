package indicators

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/pkg/config"
	"github.com/openclaw/stock/pkg/logger"
)

func newTestLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "test", LogLevel: "error", LogFormat: "json"})
}

func newTestEngine() *Engine {
	return NewEngine(newTestLogger(), DefaultConfig())
}

// barsFromCloses builds a daily series where high/low straddle each close.
func barsFromCloses(closes ...float64) contracts.PriceSeries {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make(contracts.PriceSeries, len(closes))
	for i, c := range closes {
		out[i] = contracts.PriceBar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    100000,
		}
	}
	return out
}

func constSeries(n int, price float64) contracts.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return barsFromCloses(closes...)
}

func TestComputeEmptySeries(t *testing.T) {
	_, err := newTestEngine().Compute(context.Background(), "600519", nil)
	assert.Error(t, err)
}

func TestComputeAlignment(t *testing.T) {
	series := constSeries(300, 10)
	set, err := newTestEngine().Compute(context.Background(), "600519", series)
	require.NoError(t, err)

	warmups := map[string]int{
		contracts.IndMA5:       4,
		contracts.IndMA10:      9,
		contracts.IndMA20:      19,
		contracts.IndMA60:      59,
		contracts.IndMA120:     119,
		contracts.IndMA250:     249,
		contracts.IndMACDDif:   0,
		contracts.IndMACDDea:   0,
		contracts.IndMACDHist:  0,
		contracts.IndKDJK:      8,
		contracts.IndKDJD:      8,
		contracts.IndKDJJ:      8,
		contracts.IndRSI6:      6,
		contracts.IndRSI12:     12,
		contracts.IndRSI24:     24,
		contracts.IndBollUpper: 19,
		contracts.IndBollMid:   19,
		contracts.IndBollLower: 19,
		contracts.IndVolMA5:    4,
		contracts.IndVolMA10:   9,
		contracts.IndVolRatio:  4,
	}

	require.Len(t, set, len(warmups))
	for name, validFrom := range warmups {
		s, ok := set.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, len(series), s.Len(), name)
		assert.Equal(t, validFrom, s.ValidFrom, name)
	}
}

func TestComputeSubset(t *testing.T) {
	series := constSeries(30, 10)
	set, err := newTestEngine().Compute(context.Background(), "600519", series, contracts.KindMA, contracts.KindRSI)
	require.NoError(t, err)

	_, hasMA := set.Get(contracts.IndMA5)
	_, hasRSI := set.Get(contracts.IndRSI6)
	_, hasMACD := set.Get(contracts.IndMACDDif)
	assert.True(t, hasMA)
	assert.True(t, hasRSI)
	assert.False(t, hasMACD)
}

func TestShortSeriesFullyAbsent(t *testing.T) {
	series := constSeries(10, 10)
	set, err := newTestEngine().Compute(context.Background(), "600519", series)
	require.NoError(t, err)

	// MA20 cannot warm up on 10 bars; the whole series is absent, still
	// aligned to the input.
	ma20, ok := set.Get(contracts.IndMA20)
	require.True(t, ok)
	assert.Equal(t, 10, ma20.Len())
	for i := 0; i < ma20.Len(); i++ {
		assert.False(t, ma20.Defined(i))
	}

	// MA5 proceeds unaffected.
	v, ok := set.LastValue(contracts.IndMA5)
	require.True(t, ok)
	assert.Equal(t, 10.0, v)
}

func TestConstantSeriesScenario(t *testing.T) {
	series := constSeries(20, 10.0)
	set, err := newTestEngine().Compute(context.Background(), "600519", series)
	require.NoError(t, err)

	ma5, ok := set.LastValue(contracts.IndMA5)
	require.True(t, ok)
	assert.Equal(t, 10.0, ma5)

	ma20, ok := set.LastValue(contracts.IndMA20)
	require.True(t, ok)
	assert.Equal(t, 10.0, ma20)

	// No losses at all reads 100.
	rsi6, ok := set.LastValue(contracts.IndRSI6)
	require.True(t, ok)
	assert.Equal(t, 100.0, rsi6)

	dif, _ := set.Get(contracts.IndMACDDif)
	dea, _ := set.Get(contracts.IndMACDDea)
	for i := 0; i < len(series); i++ {
		assert.Equal(t, contracts.CrossNone, CrossAt(dif, dea, i))
	}

	// Flat series collapses the Bollinger band onto the mid line.
	upper, _ := set.LastValue(contracts.IndBollUpper)
	lower, _ := set.LastValue(contracts.IndBollLower)
	assert.Equal(t, 10.0, upper)
	assert.Equal(t, 10.0, lower)

	// Flat stochastic window reads 50 for K and D.
	k, _ := set.LastValue(contracts.IndKDJK)
	d, _ := set.LastValue(contracts.IndKDJD)
	assert.InDelta(t, 50.0, k, 1e-9)
	assert.InDelta(t, 50.0, d, 1e-9)
}

func TestMAWarmupValues(t *testing.T) {
	series := barsFromCloses(1, 2, 3, 4, 5, 6, 7)
	set, err := newTestEngine().Compute(context.Background(), "600519", series, contracts.KindMA)
	require.NoError(t, err)

	ma5, _ := set.Get(contracts.IndMA5)
	assert.False(t, ma5.Defined(3))

	v, ok := ma5.At(4)
	require.True(t, ok)
	assert.InDelta(t, 3.0, v, 1e-9) // (1+2+3+4+5)/5

	v, ok = ma5.At(6)
	require.True(t, ok)
	assert.InDelta(t, 5.0, v, 1e-9) // (3+4+5+6+7)/5
}

func TestRSIBounds(t *testing.T) {
	closes := make([]float64, 120)
	price := 50.0
	for i := range closes {
		// Deterministic sawtooth with drift.
		if i%3 == 0 {
			price *= 1.04
		} else {
			price *= 0.985
		}
		closes[i] = price
	}

	set, err := newTestEngine().Compute(context.Background(), "600519", barsFromCloses(closes...), contracts.KindRSI)
	require.NoError(t, err)

	for _, name := range []string{contracts.IndRSI6, contracts.IndRSI12, contracts.IndRSI24} {
		s, ok := set.Get(name)
		require.True(t, ok, name)
		for i := s.ValidFrom; i < s.Len(); i++ {
			v := s.Values[i]
			assert.GreaterOrEqual(t, v, 0.0, name)
			assert.LessOrEqual(t, v, 100.0, name)
		}
	}
}

func TestRSIAllLossesNearZero(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}

	set, err := newTestEngine().Compute(context.Background(), "600519", barsFromCloses(closes...), contracts.KindRSI)
	require.NoError(t, err)

	rsi6, ok := set.LastValue(contracts.IndRSI6)
	require.True(t, ok)
	assert.InDelta(t, 0.0, rsi6, 1e-9)
}

func TestEMASeedsWithFirstValue(t *testing.T) {
	s := ema([]float64{10, 20}, 12)
	assert.Equal(t, 0, s.ValidFrom)
	assert.Equal(t, 10.0, s.Values[0])

	alpha := 2.0 / 13.0
	assert.InDelta(t, alpha*20+(1-alpha)*10, s.Values[1], 1e-12)
}

func TestMACDHistDoubling(t *testing.T) {
	series := barsFromCloses(10, 11, 12, 11, 13, 14, 13, 15)
	set, err := newTestEngine().Compute(context.Background(), "600519", series, contracts.KindMACD)
	require.NoError(t, err)

	dif, _ := set.Get(contracts.IndMACDDif)
	dea, _ := set.Get(contracts.IndMACDDea)
	hist, _ := set.Get(contracts.IndMACDHist)

	for i := 0; i < dif.Len(); i++ {
		assert.InDelta(t, 2*(dif.Values[i]-dea.Values[i]), hist.Values[i], 1e-12)
	}
}

func TestKDJIdentity(t *testing.T) {
	closes := []float64{10, 10.5, 11, 10.8, 11.5, 12, 11.7, 12.3, 12.8, 13, 12.5, 13.2}
	set, err := newTestEngine().Compute(context.Background(), "600519", barsFromCloses(closes...), contracts.KindKDJ)
	require.NoError(t, err)

	k, _ := set.Get(contracts.IndKDJK)
	d, _ := set.Get(contracts.IndKDJD)
	j, _ := set.Get(contracts.IndKDJJ)

	for i := k.ValidFrom; i < k.Len(); i++ {
		assert.InDelta(t, 3*k.Values[i]-2*d.Values[i], j.Values[i], 1e-9)
	}
}

func TestBollingerBandWidth(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 9
		} else {
			closes[i] = 11
		}
	}

	set, err := newTestEngine().Compute(context.Background(), "600519", barsFromCloses(closes...), contracts.KindBollinger)
	require.NoError(t, err)

	mid, _ := set.LastValue(contracts.IndBollMid)
	upper, _ := set.LastValue(contracts.IndBollUpper)
	lower, _ := set.LastValue(contracts.IndBollLower)

	// Population stddev of an even 9/11 split is exactly 1.
	assert.InDelta(t, 10.0, mid, 1e-9)
	assert.InDelta(t, 12.0, upper, 1e-9)
	assert.InDelta(t, 8.0, lower, 1e-9)
}

func TestVolumeRatio(t *testing.T) {
	series := constSeries(10, 10)
	for i := range series {
		series[i].Volume = 1000
	}
	series[9].Volume = 3000

	set, err := newTestEngine().Compute(context.Background(), "600519", series, contracts.KindVolume)
	require.NoError(t, err)

	ratio, ok := set.LastValue(contracts.IndVolRatio)
	require.True(t, ok)
	// 3000 over mean(1000,1000,1000,1000,3000) = 3000/1400
	assert.InDelta(t, 3000.0/1400.0, ratio, 1e-9)
}

func TestCrossDetection(t *testing.T) {
	fast := contracts.Series{Values: []float64{1, 3}, ValidFrom: 0}
	slow := contracts.Series{Values: []float64{2, 2}, ValidFrom: 0}
	assert.Equal(t, contracts.GoldenCross, CrossAt(fast, slow, 1))

	// Exact touch counts as the post-cross side.
	touch := contracts.Series{Values: []float64{1, 2}, ValidFrom: 0}
	assert.Equal(t, contracts.GoldenCross, CrossAt(touch, slow, 1))

	// Warming-up inputs never report a cross.
	warm := contracts.Series{Values: []float64{0, 3}, ValidFrom: 1}
	assert.Equal(t, contracts.CrossNone, CrossAt(warm, slow, 1))
}

func TestCrossSymmetry(t *testing.T) {
	fastVals := []float64{1, 1.5, 2.5, 2.2, 1.8}
	slowVals := []float64{2, 2, 2, 2, 2}

	fast := contracts.Series{Values: fastVals, ValidFrom: 0}
	slow := contracts.Series{Values: slowVals, ValidFrom: 0}

	invert := func(vals []float64) contracts.Series {
		out := make([]float64, len(vals))
		for i, v := range vals {
			out[i] = -v
		}
		return contracts.Series{Values: out, ValidFrom: 0}
	}
	fastInv := invert(fastVals)
	slowInv := invert(slowVals)

	for i := 0; i < len(fastVals); i++ {
		cross := CrossAt(fast, slow, i)
		inverted := CrossAt(fastInv, slowInv, i)

		// Golden and death never fire together, and inverting the pair
		// swaps the cross direction.
		switch cross {
		case contracts.GoldenCross:
			assert.Equal(t, contracts.DeathCross, inverted, "bar %d", i)
		case contracts.DeathCross:
			assert.Equal(t, contracts.GoldenCross, inverted, "bar %d", i)
		default:
			assert.Equal(t, contracts.CrossNone, inverted, "bar %d", i)
		}
	}
}

func TestDeriveSignalsUptrend(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 10 + 0.2*float64(i)
	}
	series := barsFromCloses(closes...)
	series[len(series)-1].Volume = 500000 // surge over the flat base

	set, err := newTestEngine().Compute(context.Background(), "600519", series)
	require.NoError(t, err)

	signals := DeriveSignals(set, series)
	assert.Equal(t, contracts.Uptrend, signals.Trend)
	assert.True(t, signals.MABullish)
	assert.False(t, signals.MABearish)
	assert.True(t, signals.VolumeSurge)
}

func TestDeriveSignalsShortHistory(t *testing.T) {
	series := constSeries(5, 10)
	set, err := newTestEngine().Compute(context.Background(), "600519", series)
	require.NoError(t, err)

	signals := DeriveSignals(set, series)
	assert.Equal(t, contracts.TrendUnknown, signals.Trend)
	assert.Equal(t, contracts.CrossNone, signals.MACross)
}

func TestOverallVote(t *testing.T) {
	bullish := contracts.TechnicalSignals{
		MACDCross: contracts.GoldenCross,
		MABullish: true,
		Boll:      contracts.BreakoutUp,
	}
	assert.Equal(t, contracts.SignalStrongBuy, overallVote(bullish))

	bearish := contracts.TechnicalSignals{
		MACDCross: contracts.DeathCross,
		KDJ:       contracts.Overbought,
		MABearish: true,
	}
	assert.Equal(t, contracts.SignalStrongSell, overallVote(bearish))
}

func TestDeterministicRecompute(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 20 + 3*math.Sin(float64(i)/5)
	}
	series := barsFromCloses(closes...)

	engine := newTestEngine()
	first, err := engine.Compute(context.Background(), "600519", series)
	require.NoError(t, err)
	second, err := engine.Compute(context.Background(), "600519", series)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
