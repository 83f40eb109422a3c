package alerting

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/internal/strategyconfig"
	"github.com/openclaw/stock/pkg/config"
	"github.com/openclaw/stock/pkg/redis"
)

type monitorSource struct {
	quotes  map[string]contracts.Quote
	offline map[string]bool
}

func (s *monitorSource) PriceSeries(context.Context, string, string, time.Time, time.Time, string) (contracts.PriceSeries, error) {
	return nil, errors.New("not used")
}

func (s *monitorSource) Quote(_ context.Context, symbol string) (contracts.Quote, error) {
	if s.offline[symbol] {
		return contracts.Quote{}, &contracts.DataUnavailableError{Symbol: symbol}
	}
	return s.quotes[symbol], nil
}

func (s *monitorSource) Fundamentals(context.Context, string) (contracts.FundamentalSnapshot, error) {
	return contracts.FundamentalSnapshot{}, nil
}

func (s *monitorSource) CapitalFlow(context.Context, string, int) (contracts.CapitalFlowSnapshot, error) {
	return contracts.CapitalFlowSnapshot{}, nil
}

func (s *monitorSource) Sentiment(context.Context, string) (contracts.SectorSentiment, error) {
	return contracts.SectorSentiment{}, nil
}

func (s *monitorSource) News(context.Context, string) (contracts.NewsSnapshot, error) {
	return contracts.NewsSnapshot{}, nil
}

type recordingSink struct {
	mu    sync.Mutex
	seen  []string
	fail  bool
	calls int
}

func (s *recordingSink) Notify(_ context.Context, alert *contracts.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail {
		return errors.New("delivery down")
	}
	s.seen = append(s.seen, alert.ID)
	return nil
}

func disabledCache() *redis.Cache {
	client, _ := redis.New(&config.Config{})
	return redis.NewCache(client, "test")
}

func newTestMonitor(src contracts.MarketDataSource, r *Registry, sink contracts.NotificationSink) *Monitor {
	cfg := strategyconfig.Default()
	return NewMonitor(src, r, NewEvaluator(r, cfg.Alerts, newTestLogger()), sink, disabledCache(), cfg, newTestLogger())
}

func TestMonitorPassTriggersAndNotifies(t *testing.T) {
	src := &monitorSource{
		quotes: map[string]contracts.Quote{
			"600519": {Symbol: "600519", Price: 16.0},
			"000001": {Symbol: "000001", Price: 8.0},
		},
		offline: map[string]bool{},
	}
	r := newTestRegistry(t)
	sink := &recordingSink{}
	m := newTestMonitor(src, r, sink)

	hit, err := r.Create("600519", contracts.AlertPrice,
		contracts.AlertCondition{Operator: contracts.OpAbove, Value: 15.0}, time.Time{})
	require.NoError(t, err)
	_, err = r.Create("000001", contracts.AlertPrice,
		contracts.AlertCondition{Operator: contracts.OpAbove, Value: 50.0}, time.Time{})
	require.NoError(t, err)

	triggered, err := m.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, triggered)
	assert.Equal(t, []string{hit.ID}, sink.seen)

	// Second pass: the triggered alert is terminal, nothing fires again.
	triggered, err = m.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, triggered)
	assert.Equal(t, 1, sink.calls)
}

func TestMonitorDeliveryFailureKeepsTransition(t *testing.T) {
	src := &monitorSource{
		quotes:  map[string]contracts.Quote{"600519": {Symbol: "600519", Price: 16.0}},
		offline: map[string]bool{},
	}
	r := newTestRegistry(t)
	sink := &recordingSink{fail: true}
	m := newTestMonitor(src, r, sink)

	alert, err := r.Create("600519", contracts.AlertPrice,
		contracts.AlertCondition{Operator: contracts.OpAbove, Value: 15.0}, time.Time{})
	require.NoError(t, err)

	triggered, err := m.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, triggered)

	after, ok := r.Get(alert.ID)
	require.True(t, ok)
	assert.Equal(t, contracts.AlertTriggered, after.Status)
}

func TestMonitorSkipsUnreachableSymbols(t *testing.T) {
	src := &monitorSource{
		quotes:  map[string]contracts.Quote{"600519": {Symbol: "600519", Price: 16.0}},
		offline: map[string]bool{"000001": true},
	}
	r := newTestRegistry(t)
	sink := &recordingSink{}
	m := newTestMonitor(src, r, sink)

	_, err := r.Create("000001", contracts.AlertPrice,
		contracts.AlertCondition{Operator: contracts.OpAbove, Value: 1.0}, time.Time{})
	require.NoError(t, err)
	hit, err := r.Create("600519", contracts.AlertPrice,
		contracts.AlertCondition{Operator: contracts.OpAbove, Value: 15.0}, time.Time{})
	require.NoError(t, err)

	triggered, err := m.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, triggered)
	assert.Equal(t, []string{hit.ID}, sink.seen)

	// The unreachable symbol's alert stays active for the next pass.
	skipped, ok := r.Get(r.List("000001", "")[0].ID)
	require.True(t, ok)
	assert.Equal(t, contracts.AlertActive, skipped.Status)
}
