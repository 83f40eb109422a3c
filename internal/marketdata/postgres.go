package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/internal/selection"
	"github.com/openclaw/stock/pkg/logger"
)

// PostgresSource serves market data out of locally ingested tables. The
// ingestion pipeline that fills those tables lives outside this repo; this
// source only reads. Every per-symbol miss surfaces as DataUnavailableError
// so batch callers can exclude the symbol instead of aborting.
type PostgresSource struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

var _ contracts.MarketDataSource = (*PostgresSource)(nil)

// NewPostgresSource creates a read-only source over the market data tables.
func NewPostgresSource(pool *pgxpool.Pool, log *logger.Logger) *PostgresSource {
	return &PostgresSource{
		pool:   pool,
		logger: log.WithField("module", "marketdata"),
	}
}

// PriceSeries returns ordered bars for [start, end].
func (s *PostgresSource) PriceSeries(ctx context.Context, symbol, period string, start, end time.Time, adjust string) (contracts.PriceSeries, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT bar_date, open, high, low, close, volume
		FROM price_bars
		WHERE symbol = $1 AND period = $2 AND adjust = $3
		  AND bar_date BETWEEN $4 AND $5
		ORDER BY bar_date ASC
	`, symbol, period, adjust, start, end)
	if err != nil {
		return nil, &contracts.DataUnavailableError{Symbol: symbol, Err: fmt.Errorf("query price bars: %w", err)}
	}
	defer rows.Close()

	var series contracts.PriceSeries
	for rows.Next() {
		var bar contracts.PriceBar
		if err := rows.Scan(&bar.Timestamp, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, &contracts.DataUnavailableError{Symbol: symbol, Err: fmt.Errorf("scan price bar: %w", err)}
		}
		series = append(series, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, &contracts.DataUnavailableError{Symbol: symbol, Err: err}
	}
	return series, nil
}

// Quote returns the latest stored snapshot for the symbol.
func (s *PostgresSource) Quote(ctx context.Context, symbol string) (contracts.Quote, error) {
	var q contracts.Quote
	err := s.pool.QueryRow(ctx, `
		SELECT symbol, name, price, change_pct, volume, turnover_rate, quoted_at
		FROM quotes
		WHERE symbol = $1
	`, symbol).Scan(&q.Symbol, &q.Name, &q.Price, &q.ChangePct, &q.Volume, &q.TurnoverRate, &q.Timestamp)
	if err != nil {
		return contracts.Quote{}, s.missing(symbol, "quote", err)
	}
	return q, nil
}

// Fundamentals returns the most recent fundamental snapshot.
func (s *PostgresSource) Fundamentals(ctx context.Context, symbol string) (contracts.FundamentalSnapshot, error) {
	var f contracts.FundamentalSnapshot
	err := s.pool.QueryRow(ctx, `
		SELECT symbol, pe_ttm, pb, peg, roe, gross_margin, net_margin,
		       revenue_growth, profit_growth, debt_ratio, dividend_yield,
		       market_cap, ocf_to_profit, inst_holding_trend,
		       shareholder_count_trend, forecast_upgrade, as_of
		FROM fundamentals
		WHERE symbol = $1
		ORDER BY as_of DESC
		LIMIT 1
	`, symbol).Scan(
		&f.Symbol, &f.PETTM, &f.PB, &f.PEG, &f.ROE, &f.GrossMargin, &f.NetMargin,
		&f.RevenueGrowth, &f.ProfitGrowth, &f.DebtRatio, &f.DividendYield,
		&f.MarketCap, &f.OCFToProfit, &f.InstHoldingTrend,
		&f.ShareholderCountTrend, &f.ForecastUpgrade, &f.AsOf,
	)
	if err != nil {
		return contracts.FundamentalSnapshot{}, s.missing(symbol, "fundamentals", err)
	}
	return f, nil
}

// CapitalFlow sums investor flow over the last N trading days on record.
func (s *PostgresSource) CapitalFlow(ctx context.Context, symbol string, days int) (contracts.CapitalFlowSnapshot, error) {
	flow := contracts.CapitalFlowSnapshot{Symbol: symbol, Days: days}
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(main_force_inflow), 0),
		       COALESCE(SUM(retail_inflow), 0),
		       COALESCE(SUM(net_inflow), 0)
		FROM (
			SELECT main_force_inflow, retail_inflow, net_inflow
			FROM capital_flows
			WHERE symbol = $1
			ORDER BY flow_date DESC
			LIMIT $2
		) recent
	`, symbol, days).Scan(&flow.MainForceInflow, &flow.RetailInflow, &flow.NetInflow)
	if err != nil {
		return contracts.CapitalFlowSnapshot{}, s.missing(symbol, "capital flow", err)
	}
	return flow, nil
}

// Sentiment resolves the symbol's sector and returns the latest sector
// co-movement row.
func (s *PostgresSource) Sentiment(ctx context.Context, symbol string) (contracts.SectorSentiment, error) {
	var sent contracts.SectorSentiment
	err := s.pool.QueryRow(ctx, `
		SELECT ss.sector, ss.sector_change_pct, ss.limit_up_count
		FROM securities sec
		JOIN sector_sentiment ss ON ss.sector = sec.sector
		WHERE sec.symbol = $1
		ORDER BY ss.sentiment_date DESC
		LIMIT 1
	`, symbol).Scan(&sent.Sector, &sent.SectorChangePct, &sent.LimitUpCount)
	if err != nil {
		return contracts.SectorSentiment{}, s.missing(symbol, "sector sentiment", err)
	}
	return sent, nil
}

// News returns positive tags recorded within the last trading day.
func (s *PostgresSource) News(ctx context.Context, symbol string) (contracts.NewsSnapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT tag
		FROM news_tags
		WHERE symbol = $1 AND sentiment = 'positive'
		  AND published_at >= NOW() - INTERVAL '24 hours'
		ORDER BY published_at DESC
	`, symbol)
	if err != nil {
		return contracts.NewsSnapshot{}, s.missing(symbol, "news", err)
	}
	defer rows.Close()

	snap := contracts.NewsSnapshot{Symbol: symbol}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return contracts.NewsSnapshot{}, s.missing(symbol, "news", err)
		}
		snap.PositiveTags = append(snap.PositiveTags, tag)
	}
	if err := rows.Err(); err != nil {
		return contracts.NewsSnapshot{}, s.missing(symbol, "news", err)
	}
	return snap, nil
}

// Universe returns every listed security as a selection candidate.
func (s *PostgresSource) Universe(ctx context.Context) ([]selection.Candidate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT symbol, name, sector
		FROM securities
		WHERE listed = TRUE
		ORDER BY symbol ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query securities: %w", err)
	}
	defer rows.Close()

	var universe []selection.Candidate
	for rows.Next() {
		var c selection.Candidate
		if err := rows.Scan(&c.Symbol, &c.Name, &c.Sector); err != nil {
			return nil, fmt.Errorf("scan security: %w", err)
		}
		universe = append(universe, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read securities: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"count": len(universe),
	}).Debug("Loaded security universe")
	return universe, nil
}

func (s *PostgresSource) missing(symbol, what string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &contracts.DataUnavailableError{Symbol: symbol, Err: fmt.Errorf("no %s on record", what)}
	}
	return &contracts.DataUnavailableError{Symbol: symbol, Err: fmt.Errorf("%s: %w", what, err)}
}
