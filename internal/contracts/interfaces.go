package contracts

import (
	"context"
	"time"
)

// MarketDataSource is the data acquisition boundary. Implementations live
// outside this module; the core only consumes the contract. Any failure to
// reach a symbol or market is reported as *DataUnavailableError.
type MarketDataSource interface {
	// PriceSeries returns ordered bars for the symbol over [start, end].
	// Period is the bar interval ("daily", "weekly", ...); adjust selects
	// the corporate-action adjustment ("qfq", "hfq", "") and is passed
	// through untouched.
	PriceSeries(ctx context.Context, symbol, period string, start, end time.Time, adjust string) (PriceSeries, error)

	// Quote returns the latest snapshot for the symbol.
	Quote(ctx context.Context, symbol string) (Quote, error)

	// Fundamentals returns the point-in-time fundamental snapshot.
	Fundamentals(ctx context.Context, symbol string) (FundamentalSnapshot, error)

	// CapitalFlow returns investor flow aggregated over the last N trading
	// days.
	CapitalFlow(ctx context.Context, symbol string, days int) (CapitalFlowSnapshot, error)

	// Sentiment returns sector co-movement inputs for the symbol's sector.
	Sentiment(ctx context.Context, symbol string) (SectorSentiment, error)

	// News returns collaborator-detected news tags for the symbol.
	News(ctx context.Context, symbol string) (NewsSnapshot, error)
}

// NotificationSink delivers triggered alerts. Delivery failure never rolls
// back the alert's status transition; delivery is at-least-once and must be
// idempotent on the alert id.
type NotificationSink interface {
	Notify(ctx context.Context, alert *Alert) error
}
