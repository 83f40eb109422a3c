package alerting

import (
	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/internal/indicators"
	"github.com/openclaw/stock/internal/strategyconfig"
	"github.com/openclaw/stock/pkg/logger"
)

// Snapshot is the market state one evaluation pass sees for a symbol.
// Indicators and News may be empty when no alert on the symbol needs them.
type Snapshot struct {
	Quote      contracts.Quote
	Indicators contracts.IndicatorSet
	News       contracts.NewsSnapshot
}

// Evaluator drives alert state transitions against snapshots. All mutations
// run under the registry's per-id lock, so the active to triggered
// transition happens at most once no matter how many passes race.
type Evaluator struct {
	registry *Registry
	cfg      strategyconfig.Alerts
	logger   *logger.Logger
}

// NewEvaluator creates a new alert evaluator.
func NewEvaluator(registry *Registry, cfg strategyconfig.Alerts, log *logger.Logger) *Evaluator {
	return &Evaluator{
		registry: registry,
		cfg:      cfg,
		logger:   log.WithField("module", "alerting"),
	}
}

// Evaluate runs one pass for a single alert. It returns the alert after the
// pass and whether this pass performed the trigger transition. Evaluating a
// terminal alert is a no-op. The expiry check comes first: an alert past
// its expiry never triggers, even when the condition holds on the same pass.
func (e *Evaluator) Evaluate(id string, snap Snapshot) (contracts.Alert, bool, error) {
	var (
		after     contracts.Alert
		triggered bool
	)

	err := e.registry.update(id, func(alert *contracts.Alert) error {
		defer func() { after = *alert }()

		if !alert.Evaluable() {
			return nil
		}

		now := e.registry.now()
		if alert.ExpiredAt(now) {
			alert.Status = contracts.AlertExpired
			e.logger.WithField("alert_id", alert.ID).Info("Alert expired")
			return nil
		}

		met, value := e.conditionMet(alert, snap)
		if !met {
			return nil
		}

		alert.Status = contracts.AlertTriggered
		alert.TriggeredAt = &now
		alert.TriggeredValue = &value
		triggered = true

		e.logger.WithFields(map[string]interface{}{
			"alert_id": alert.ID,
			"symbol":   alert.Symbol,
			"type":     string(alert.Type),
			"value":    value,
		}).Info("Alert triggered")
		return nil
	})
	if err != nil {
		return contracts.Alert{}, false, err
	}

	return after, triggered, nil
}

// EvaluateAll runs one pass over every active alert for a symbol and
// returns the alerts triggered by this pass.
func (e *Evaluator) EvaluateAll(symbol string, snap Snapshot) ([]contracts.Alert, error) {
	var fired []contracts.Alert
	for _, alert := range e.registry.List(symbol, contracts.AlertActive) {
		after, triggered, err := e.Evaluate(alert.ID, snap)
		if err != nil {
			return fired, err
		}
		if triggered {
			fired = append(fired, after)
		}
	}
	return fired, nil
}

// conditionMet checks the alert's condition against the snapshot and
// returns the observed value recorded on trigger.
func (e *Evaluator) conditionMet(alert *contracts.Alert, snap Snapshot) (bool, float64) {
	switch alert.Type {
	case contracts.AlertPrice:
		return compare(alert.Condition.Operator, snap.Quote.Price, alert.Condition.Value), snap.Quote.Price

	case contracts.AlertVolume:
		volume := float64(snap.Quote.Volume)
		return compare(alert.Condition.Operator, volume, alert.Condition.Value), volume

	case contracts.AlertTechnical:
		return e.technicalMet(alert.Condition, snap)

	case contracts.AlertNews:
		return snap.News.HasPositive(), snap.Quote.Price
	}
	return false, 0
}

func compare(op contracts.AlertOperator, observed, threshold float64) bool {
	switch op {
	case contracts.OpAbove:
		return observed >= threshold
	case contracts.OpBelow:
		return observed <= threshold
	}
	return false
}

func (e *Evaluator) technicalMet(cond contracts.AlertCondition, snap Snapshot) (bool, float64) {
	switch cond.Indicator {
	case "macd":
		return crossMet(cond.Operator, snap,
			contracts.IndMACDDif, contracts.IndMACDDea)
	case "ma":
		return crossMet(cond.Operator, snap,
			contracts.IndMA5, contracts.IndMA20)
	case "rsi":
		value, ok := snap.Indicators.LastValue(contracts.IndRSI6)
		if !ok {
			return false, 0
		}
		switch cond.Operator {
		case contracts.OpOverbought:
			return value >= e.cfg.RSIOverbought, value
		case contracts.OpOversold:
			return value <= e.cfg.RSIOversold, value
		}
	}
	return false, 0
}

func crossMet(op contracts.AlertOperator, snap Snapshot, fastName, slowName string) (bool, float64) {
	fast, ok := snap.Indicators.Get(fastName)
	if !ok {
		return false, 0
	}
	slow, ok := snap.Indicators.Get(slowName)
	if !ok {
		return false, 0
	}

	cross := indicators.LatestCross(fast, slow)
	value, _ := snap.Indicators.LastValue(fastName)
	switch op {
	case contracts.OpGoldenCross:
		return cross == contracts.GoldenCross, value
	case contracts.OpDeathCross:
		return cross == contracts.DeathCross, value
	}
	return false, 0
}
