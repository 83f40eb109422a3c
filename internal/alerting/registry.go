package alerting

import (
	"fmt"
	"sync"
	"time"

	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/pkg/logger"
)

// Registry is the in-memory alert store. Alerts are owned by the registry;
// callers only ever see copies. Mutations to one alert are serialized on a
// per-id lock so concurrent evaluation passes cannot double-trigger.
type Registry struct {
	mu     sync.RWMutex
	alerts map[string]*contracts.Alert
	locks  map[string]*sync.Mutex
	now    func() time.Time
	logger *logger.Logger
}

// NewRegistry creates an empty alert registry.
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		alerts: make(map[string]*contracts.Alert),
		locks:  make(map[string]*sync.Mutex),
		now:    time.Now,
		logger: log.WithField("module", "alerting"),
	}
}

// Create validates the condition and registers a new active alert. A zero
// expiresAt means the alert never expires.
func (r *Registry) Create(symbol string, typ contracts.AlertType, cond contracts.AlertCondition, expiresAt time.Time) (contracts.Alert, error) {
	if symbol == "" {
		return contracts.Alert{}, &contracts.InvalidConditionError{Reason: "symbol is required"}
	}
	if err := ValidateCondition(typ, cond); err != nil {
		return contracts.Alert{}, err
	}

	now := r.now()

	r.mu.Lock()
	// Ids carry microsecond resolution; two creates inside the same
	// microsecond would collide, so advance the instant until free.
	id := contracts.NewAlertID(symbol, typ, now)
	for _, taken := r.alerts[id]; taken; _, taken = r.alerts[id] {
		now = now.Add(time.Microsecond)
		id = contracts.NewAlertID(symbol, typ, now)
	}
	alert := &contracts.Alert{
		ID:        id,
		Symbol:    symbol,
		Type:      typ,
		Condition: cond,
		Status:    contracts.AlertActive,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	r.alerts[alert.ID] = alert
	r.locks[alert.ID] = &sync.Mutex{}
	r.mu.Unlock()

	r.logger.WithFields(map[string]interface{}{
		"alert_id": alert.ID,
		"symbol":   symbol,
		"type":     string(typ),
	}).Info("Alert created")

	return *alert, nil
}

// Restore inserts a previously persisted alert, keeping its id and status.
func (r *Registry) Restore(alert contracts.Alert) error {
	if alert.ID == "" {
		return fmt.Errorf("restore alert: empty id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.alerts[alert.ID]; exists {
		return fmt.Errorf("restore alert %s: already registered", alert.ID)
	}
	stored := alert
	r.alerts[alert.ID] = &stored
	r.locks[alert.ID] = &sync.Mutex{}
	return nil
}

// Get returns a copy of the alert. The copy is taken under the alert's
// per-id lock so it never observes a half-applied transition.
func (r *Registry) Get(id string) (contracts.Alert, bool) {
	r.mu.RLock()
	alert, ok := r.alerts[id]
	lock := r.locks[id]
	r.mu.RUnlock()
	if !ok {
		return contracts.Alert{}, false
	}

	lock.Lock()
	defer lock.Unlock()
	return *alert, true
}

// List returns copies of all alerts, optionally filtered by symbol and
// status (empty filter values match everything). Order is unspecified.
// Each copy is taken under its per-id lock; update only ever mutates an
// alert while holding that lock.
func (r *Registry) List(symbol string, status contracts.AlertStatus) []contracts.Alert {
	r.mu.RLock()
	alerts := make([]*contracts.Alert, 0, len(r.alerts))
	locks := make([]*sync.Mutex, 0, len(r.alerts))
	for id, alert := range r.alerts {
		alerts = append(alerts, alert)
		locks = append(locks, r.locks[id])
	}
	r.mu.RUnlock()

	out := make([]contracts.Alert, 0, len(alerts))
	for i, alert := range alerts {
		locks[i].Lock()
		snapshot := *alert
		locks[i].Unlock()

		if symbol != "" && snapshot.Symbol != symbol {
			continue
		}
		if status != "" && snapshot.Status != status {
			continue
		}
		out = append(out, snapshot)
	}
	return out
}

// Cancel moves an active alert to cancelled. Cancelling a terminal alert is
// an error; the caller asked for a transition that cannot happen.
func (r *Registry) Cancel(id string) (contracts.Alert, error) {
	var cancelled contracts.Alert
	err := r.update(id, func(alert *contracts.Alert) error {
		if !alert.Evaluable() {
			return fmt.Errorf("cancel alert %s: status is %s", id, alert.Status)
		}
		alert.Status = contracts.AlertCancelled
		cancelled = *alert
		return nil
	})
	if err != nil {
		return contracts.Alert{}, err
	}

	r.logger.WithField("alert_id", id).Info("Alert cancelled")
	return cancelled, nil
}

// update runs fn on the alert under its per-id lock.
func (r *Registry) update(id string, fn func(*contracts.Alert) error) error {
	r.mu.RLock()
	alert, ok := r.alerts[id]
	lock := r.locks[id]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("alert %s: not found", id)
	}

	lock.Lock()
	defer lock.Unlock()
	return fn(alert)
}
