package contracts

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bars(n int) PriceSeries {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make(PriceSeries, n)
	for i := range out {
		out[i] = PriceBar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      10, High: 11, Low: 9, Close: 10,
			Volume: 1000,
		}
	}
	return out
}

func TestPriceSeriesValidate(t *testing.T) {
	s := bars(5)
	require.NoError(t, s.Validate())

	dup := bars(5)
	dup[3].Timestamp = dup[2].Timestamp
	assert.Error(t, dup.Validate())

	rev := bars(3)
	rev[0], rev[2] = rev[2], rev[0]
	assert.Error(t, rev.Validate())

	assert.NoError(t, PriceSeries(nil).Validate())
}

func TestSeriesAbsence(t *testing.T) {
	s := AbsentSeries(10)
	assert.Equal(t, 10, s.Len())
	for i := 0; i < s.Len(); i++ {
		assert.False(t, s.Defined(i))
	}
	_, ok := s.Last()
	assert.False(t, ok)

	s = Series{Values: []float64{0, 0, 3, 4}, ValidFrom: 2}
	assert.False(t, s.Defined(1))
	assert.True(t, s.Defined(2))
	v, ok := s.At(3)
	require.True(t, ok)
	assert.Equal(t, 4.0, v)
	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 4.0, last)
}

func TestIndicatorKindRoundTrip(t *testing.T) {
	for _, k := range AllIndicatorKinds() {
		parsed, err := ParseIndicatorKind(k.String())
		require.NoError(t, err, k.String())
		assert.Equal(t, k, parsed)
	}
	_, err := ParseIndicatorKind("fibonacci")
	assert.Error(t, err)
}

func TestDerivePEG(t *testing.T) {
	f := FundamentalSnapshot{PETTM: 20, ProfitGrowth: 40}
	f.DerivePEG()
	assert.InDelta(t, 0.5, f.PEG, 1e-9)

	// Non-positive growth leaves PEG unknown.
	f = FundamentalSnapshot{PETTM: 20, ProfitGrowth: -5}
	f.DerivePEG()
	assert.Zero(t, f.PEG)

	// An already-known PEG is preserved.
	f = FundamentalSnapshot{PETTM: 20, ProfitGrowth: 40, PEG: 1.2}
	f.DerivePEG()
	assert.Equal(t, 1.2, f.PEG)
}

func TestAlertLifecycleHelpers(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	a := Alert{
		ID:        NewAlertID("600519", AlertPrice, now),
		Symbol:    "600519",
		Type:      AlertPrice,
		Status:    AlertActive,
		CreatedAt: now,
		ExpiresAt: now.AddDate(0, 0, 7),
	}
	assert.True(t, a.Evaluable())
	assert.False(t, a.ExpiredAt(now))
	assert.True(t, a.ExpiredAt(now.AddDate(0, 0, 8)))

	// Zero ExpiresAt means the alert never expires.
	a.ExpiresAt = time.Time{}
	assert.False(t, a.ExpiredAt(now.AddDate(10, 0, 0)))

	a.Status = AlertTriggered
	assert.False(t, a.Evaluable())
}

func TestErrorHelpers(t *testing.T) {
	wrapped := fmt.Errorf("fetch 600519: %w", &DataUnavailableError{Symbol: "600519", Err: errors.New("timeout")})
	assert.True(t, IsDataUnavailable(wrapped))
	assert.False(t, IsDataUnavailable(errors.New("plain")))

	inv := fmt.Errorf("create: %w", &InvalidConditionError{Reason: "price alert requires above or below"})
	assert.True(t, IsInvalidCondition(inv))

	assert.True(t, errors.Is(fmt.Errorf("rsi: %w", ErrInsufficientHistory), ErrInsufficientHistory))
}

func TestScoreBreakdownSum(t *testing.T) {
	b := ScoreBreakdown{
		Profile: ShortTerm,
		Components: []ScoreComponent{
			{Name: CompTechnical, Score: 30, Max: 40},
			{Name: CompCapitalFlow, Score: 15, Max: 30},
		},
	}
	assert.Equal(t, 45.0, b.Sum())
	c, ok := b.Component(CompTechnical)
	require.True(t, ok)
	assert.Equal(t, 40.0, c.Max)
	_, ok = b.Component(CompNews)
	assert.False(t, ok)
}
