package alerting

import (
	"context"
	"time"

	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/internal/indicators"
	"github.com/openclaw/stock/internal/strategyconfig"
	"github.com/openclaw/stock/pkg/logger"
	"github.com/openclaw/stock/pkg/redis"
)

// Monitor runs evaluation passes over every active alert. Snapshots are
// fetched once per symbol per pass; quotes go through the redis cache so
// back-to-back passes inside the quote TTL reuse the same snapshot.
type Monitor struct {
	source    contracts.MarketDataSource
	registry  *Registry
	evaluator *Evaluator
	engine    *indicators.Engine
	sink      contracts.NotificationSink
	cache     *redis.Cache
	cfg       *strategyconfig.Config
	logger    *logger.Logger
}

// NewMonitor creates a new alert monitor. The cache may be backed by a
// disabled redis client; every lookup then falls through to the source.
func NewMonitor(
	source contracts.MarketDataSource,
	registry *Registry,
	evaluator *Evaluator,
	sink contracts.NotificationSink,
	cache *redis.Cache,
	cfg *strategyconfig.Config,
	log *logger.Logger,
) *Monitor {
	return &Monitor{
		source:    source,
		registry:  registry,
		evaluator: evaluator,
		engine:    indicators.NewEngine(log, cfg.Indicators),
		sink:      sink,
		cache:     cache,
		cfg:       cfg,
		logger:    log.WithField("module", "alert_monitor"),
	}
}

// RunPass evaluates every active alert once and notifies on new triggers.
// It returns the number of alerts triggered by this pass. Per-symbol data
// failures skip that symbol's alerts and never abort the pass.
func (m *Monitor) RunPass(ctx context.Context) (int, error) {
	active := m.registry.List("", contracts.AlertActive)
	if len(active) == 0 {
		return 0, nil
	}

	bySymbol := make(map[string][]contracts.Alert)
	for _, alert := range active {
		bySymbol[alert.Symbol] = append(bySymbol[alert.Symbol], alert)
	}

	triggered := 0
	for symbol, alerts := range bySymbol {
		snap, err := m.snapshot(ctx, symbol, alerts)
		if err != nil {
			m.logger.WithField("symbol", symbol).WithError(err).Warn("Snapshot unavailable, skipping symbol")
			continue
		}

		fired, err := m.evaluator.EvaluateAll(symbol, snap)
		if err != nil {
			return triggered, err
		}
		triggered += len(fired)

		for i := range fired {
			// Delivery failure never rolls back the transition; the
			// sink must be idempotent on the alert id.
			if err := m.sink.Notify(ctx, &fired[i]); err != nil {
				m.logger.WithFields(map[string]interface{}{
					"alert_id": fired[i].ID,
					"symbol":   symbol,
				}).WithError(err).Warn("Alert notification failed")
			}
		}
	}

	m.logger.WithFields(map[string]interface{}{
		"active":    len(active),
		"symbols":   len(bySymbol),
		"triggered": triggered,
	}).Info("Alert pass completed")

	return triggered, nil
}

// snapshot assembles the market state the symbol's alerts need. Indicators
// and news are only fetched when an alert of that type exists.
func (m *Monitor) snapshot(ctx context.Context, symbol string, alerts []contracts.Alert) (Snapshot, error) {
	var snap Snapshot

	err := m.cache.GetOrSet(ctx, redis.QuoteKey(symbol), &snap.Quote, redis.TTLShort, func() (interface{}, error) {
		return m.source.Quote(ctx, symbol)
	})
	if err != nil {
		return Snapshot{}, err
	}

	needTechnical := false
	needNews := false
	for _, alert := range alerts {
		switch alert.Type {
		case contracts.AlertTechnical:
			needTechnical = true
		case contracts.AlertNews:
			needNews = true
		}
	}

	if needTechnical {
		now := time.Now()
		start := now.AddDate(0, 0, -m.cfg.Screening.LookbackDays)
		series, err := m.source.PriceSeries(ctx, symbol, "daily", start, now, "qfq")
		if err != nil {
			return Snapshot{}, err
		}
		snap.Indicators, err = m.engine.Compute(ctx, symbol, series,
			contracts.KindMA, contracts.KindMACD, contracts.KindRSI)
		if err != nil {
			return Snapshot{}, err
		}
	}

	if needNews {
		news, err := m.source.News(ctx, symbol)
		if err != nil {
			return Snapshot{}, err
		}
		snap.News = news
	}

	return snap, nil
}

// LogSink is a NotificationSink that writes triggered alerts to the log.
// It stands in wherever a real delivery channel is not configured.
type LogSink struct {
	logger *logger.Logger
}

// NewLogSink creates a logging notification sink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{logger: log.WithField("module", "notify")}
}

// Notify logs the triggered alert.
func (s *LogSink) Notify(_ context.Context, alert *contracts.Alert) error {
	fields := map[string]interface{}{
		"alert_id": alert.ID,
		"symbol":   alert.Symbol,
		"type":     string(alert.Type),
	}
	if alert.TriggeredValue != nil {
		fields["value"] = *alert.TriggeredValue
	}
	s.logger.WithFields(fields).Info("ALERT TRIGGERED")
	return nil
}
