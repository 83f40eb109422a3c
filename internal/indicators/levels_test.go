package indicators

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/stock/internal/contracts"
)

func TestSupportResistanceInsufficientHistory(t *testing.T) {
	calc := NewSupportResistanceCalculator(newTestLogger())

	_, err := calc.Calculate(context.Background(), "600519", constSeries(30, 10), SRPivot, 60)
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrInsufficientHistory))
}

func TestSupportResistanceUnknownMethod(t *testing.T) {
	calc := NewSupportResistanceCalculator(newTestLogger())

	_, err := calc.Calculate(context.Background(), "600519", constSeries(60, 10), SRMethod("astrology"), 60)
	assert.Error(t, err)
}

func TestPivotLevels(t *testing.T) {
	// Window high 12, low 8, last close 10 -> pivot 10.
	series := constSeries(60, 10)
	series[30].High = 12
	series[40].Low = 8

	calc := NewSupportResistanceCalculator(newTestLogger())
	res, err := calc.Calculate(context.Background(), "600519", series, SRPivot, 60)
	require.NoError(t, err)

	assert.Equal(t, 10.0, res.PivotPoint)
	// S1 = 2p - high, S2 = p - (high-low), S3 = low - 2(high-p);
	// nearest support first.
	assert.Equal(t, []float64{8, 6, 4}, res.SupportLevels)
	// R1 = 2p - low, R2 = p + (high-low), R3 = high + 2(p-low).
	assert.Equal(t, []float64{12, 14, 16}, res.ResistanceLevels)
}

func TestFibonacciLevels(t *testing.T) {
	series := constSeries(60, 10)
	series[10].High = 20
	series[20].Low = 10 // window low stays at constSeries low 9.9

	calc := NewSupportResistanceCalculator(newTestLogger())
	res, err := calc.Calculate(context.Background(), "600519", series, SRFibonacci, 60)
	require.NoError(t, err)

	diff := 20.0 - 9.9
	assert.InDelta(t, 20-0.236*diff, res.SupportLevels[0], 0.01)
	assert.InDelta(t, 20-0.786*diff, res.SupportLevels[len(res.SupportLevels)-1], 0.01)
	assert.InDelta(t, 9.9+diff, res.ResistanceLevels[0], 0.01)
	assert.Len(t, res.ResistanceLevels, 5)
}

func TestMovingAverageLevels(t *testing.T) {
	// Rising series: every MA trails below the latest price.
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 10 + 0.1*float64(i)
	}

	calc := NewSupportResistanceCalculator(newTestLogger())
	res, err := calc.Calculate(context.Background(), "600519", barsFromCloses(closes...), SRMovingAvg, 60)
	require.NoError(t, err)

	require.Len(t, res.SupportLevels, 4)
	assert.Empty(t, res.ResistanceLevels)
	for _, s := range res.SupportLevels {
		assert.LessOrEqual(t, s, res.CurrentPrice)
	}
	// Nearest first: MA5 sits closest to the latest price.
	assert.True(t, res.SupportLevels[0] > res.SupportLevels[3])
}

func TestHistoricalExtrema(t *testing.T) {
	series := constSeries(60, 10)
	// One clear local peak and one clear local trough.
	series[20].High = 14
	series[40].Low = 7

	calc := NewSupportResistanceCalculator(newTestLogger())
	res, err := calc.Calculate(context.Background(), "600519", series, SRHistorical, 60)
	require.NoError(t, err)

	assert.Contains(t, res.ResistanceLevels, 14.0)
	assert.Contains(t, res.SupportLevels, 7.0)
}

func TestRecommendationNearSupport(t *testing.T) {
	// Price 10, support right underneath at 9.95.
	calc := NewSupportResistanceCalculator(newTestLogger())

	rec := calc.recommend(10, []float64{9.95, 9}, []float64{12})
	assert.Equal(t, "near support, watch for a bounce", rec)

	rec = calc.recommend(10, []float64{9}, []float64{10.02})
	assert.Equal(t, "near resistance, watch for rejection", rec)

	rec = calc.recommend(8, []float64{9.5, 9}, []float64{12})
	assert.Equal(t, "price below key support, stand aside or stop out", rec)

	rec = calc.recommend(13, []float64{9}, []float64{11, 12})
	assert.Equal(t, "price above key resistance, possible breakout", rec)

	rec = calc.recommend(10.5, []float64{9}, []float64{12})
	assert.Equal(t, "ranging between support and resistance", rec)
}
