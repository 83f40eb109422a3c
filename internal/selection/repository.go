package selection

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openclaw/stock/internal/contracts"
)

// Repository persists selection runs. One row per (date, profile, symbol);
// re-running a date replaces that day's rows for the profile.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new selection repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveResult stores a completed selection run.
func (r *Repository) SaveResult(ctx context.Context, result contracts.SelectionResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	date := result.AsOf.Truncate(24 * time.Hour)
	profile := result.Profile.String()

	_, err = tx.Exec(ctx,
		"DELETE FROM selection_results WHERE select_date = $1 AND profile = $2",
		date, profile,
	)
	if err != nil {
		return fmt.Errorf("delete old results: %w", err)
	}

	query := `
		INSERT INTO selection_results (
			select_date, profile, symbol, name, rank,
			price, change_pct, total_score, rating, recommendation, breakdown
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	for _, stock := range result.Stocks {
		breakdownJSON, err := json.Marshal(stock.Breakdown)
		if err != nil {
			return fmt.Errorf("marshal breakdown for %s: %w", stock.Symbol, err)
		}
		_, err = tx.Exec(ctx, query,
			date, profile, stock.Symbol, stock.Name, stock.Rank,
			stock.Price, stock.ChangePct, stock.Breakdown.TotalScore,
			stock.Breakdown.Rating, stock.Breakdown.Recommendation, breakdownJSON,
		)
		if err != nil {
			return fmt.Errorf("insert result for %s: %w", stock.Symbol, err)
		}
	}

	failuresJSON, err := json.Marshal(result.Failures)
	if err != nil {
		return fmt.Errorf("marshal failures: %w", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO selection_runs (select_date, profile, as_of, selected, failures)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (select_date, profile) DO UPDATE SET
			as_of = EXCLUDED.as_of,
			selected = EXCLUDED.selected,
			failures = EXCLUDED.failures,
			created_at = NOW()
	`, date, profile, result.AsOf, result.Count(), failuresJSON)
	if err != nil {
		return fmt.Errorf("save run summary: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetResult loads a stored selection run for a date and profile.
func (r *Repository) GetResult(ctx context.Context, date time.Time, profile contracts.StrategyProfile) (contracts.SelectionResult, error) {
	date = date.Truncate(24 * time.Hour)

	result := contracts.SelectionResult{Profile: profile}

	var failuresJSON []byte
	err := r.pool.QueryRow(ctx, `
		SELECT as_of, failures
		FROM selection_runs
		WHERE select_date = $1 AND profile = $2
	`, date, profile.String()).Scan(&result.AsOf, &failuresJSON)
	if err == pgx.ErrNoRows {
		return contracts.SelectionResult{}, fmt.Errorf("no selection run for %s/%s", date.Format("2006-01-02"), profile)
	}
	if err != nil {
		return contracts.SelectionResult{}, fmt.Errorf("get run summary: %w", err)
	}
	if err := json.Unmarshal(failuresJSON, &result.Failures); err != nil {
		return contracts.SelectionResult{}, fmt.Errorf("unmarshal failures: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT symbol, name, rank, price, change_pct, breakdown
		FROM selection_results
		WHERE select_date = $1 AND profile = $2
		ORDER BY rank
	`, date, profile.String())
	if err != nil {
		return contracts.SelectionResult{}, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stock contracts.SelectedStock
		var breakdownJSON []byte
		if err := rows.Scan(&stock.Symbol, &stock.Name, &stock.Rank,
			&stock.Price, &stock.ChangePct, &breakdownJSON); err != nil {
			return contracts.SelectionResult{}, fmt.Errorf("scan result row: %w", err)
		}
		if err := json.Unmarshal(breakdownJSON, &stock.Breakdown); err != nil {
			return contracts.SelectionResult{}, fmt.Errorf("unmarshal breakdown: %w", err)
		}
		result.Stocks = append(result.Stocks, stock)
	}
	if err := rows.Err(); err != nil {
		return contracts.SelectionResult{}, fmt.Errorf("iterate results: %w", err)
	}

	return result, nil
}
