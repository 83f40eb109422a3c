package contracts

import (
	"fmt"
	"time"
)

// AlertType discriminates the condition variant carried by an alert.
type AlertType string

const (
	AlertPrice     AlertType = "price"
	AlertVolume    AlertType = "volume"
	AlertTechnical AlertType = "technical"
	AlertNews      AlertType = "news"
)

// AlertStatus is the lifecycle state of an alert.
type AlertStatus string

const (
	AlertActive    AlertStatus = "active"
	AlertTriggered AlertStatus = "triggered"
	AlertExpired   AlertStatus = "expired"
	AlertCancelled AlertStatus = "cancelled"
)

// AlertOperator is the comparison or event an alert condition watches for.
type AlertOperator string

const (
	OpAbove       AlertOperator = "above"
	OpBelow       AlertOperator = "below"
	OpGoldenCross AlertOperator = "golden_cross"
	OpDeathCross  AlertOperator = "death_cross"
	OpOverbought  AlertOperator = "overbought"
	OpOversold    AlertOperator = "oversold"
)

// AlertCondition is a tagged variant keyed by the owning alert's type:
//   - price/volume: Operator above|below against Value
//   - technical: Indicator (macd|ma|rsi) with a cross or oscillator operator
//   - news: satisfied by a collaborator-supplied positive-news flag
type AlertCondition struct {
	Operator  AlertOperator `json:"operator"`
	Value     float64       `json:"value,omitempty"`
	Indicator string        `json:"indicator,omitempty"`
}

// Alert is a persisted watch on a single security. It is owned by the alert
// registry; no other component mutates it.
type Alert struct {
	ID             string         `json:"id"`
	Symbol         string         `json:"symbol"`
	Type           AlertType      `json:"type"`
	Condition      AlertCondition `json:"condition"`
	Status         AlertStatus    `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	ExpiresAt      time.Time      `json:"expires_at"`
	TriggeredAt    *time.Time     `json:"triggered_at,omitempty"`
	TriggeredValue *float64       `json:"triggered_value,omitempty"`
}

// NewAlertID derives a registry key from symbol, type and creation time.
func NewAlertID(symbol string, typ AlertType, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s", symbol, typ, at.UTC().Format("20060102150405.000000"))
}

// ExpiredAt reports whether the alert's expiry has passed at the given time.
// A zero ExpiresAt means the alert never expires.
func (a *Alert) ExpiredAt(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && now.After(a.ExpiresAt)
}

// Evaluable reports whether the alert is still subject to evaluation.
// Triggered, expired and cancelled are all terminal.
func (a *Alert) Evaluable() bool {
	return a.Status == AlertActive
}
