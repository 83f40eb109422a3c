package alerting

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openclaw/stock/internal/contracts"
)

// Repository persists alerts across restarts. The registry stays the
// runtime source of truth; rows are written on create and on every status
// transition.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new alert repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save upserts one alert row.
func (r *Repository) Save(ctx context.Context, alert contracts.Alert) error {
	conditionJSON, err := json.Marshal(alert.Condition)
	if err != nil {
		return fmt.Errorf("marshal condition for %s: %w", alert.ID, err)
	}

	query := `
		INSERT INTO alerts (
			id, symbol, type, condition, status,
			created_at, expires_at, triggered_at, triggered_value
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			triggered_at = EXCLUDED.triggered_at,
			triggered_value = EXCLUDED.triggered_value
	`
	var expiresAt interface{}
	if !alert.ExpiresAt.IsZero() {
		expiresAt = alert.ExpiresAt
	}

	_, err = r.pool.Exec(ctx, query,
		alert.ID, alert.Symbol, string(alert.Type), conditionJSON, string(alert.Status),
		alert.CreatedAt, expiresAt, alert.TriggeredAt, alert.TriggeredValue,
	)
	if err != nil {
		return fmt.Errorf("save alert %s: %w", alert.ID, err)
	}
	return nil
}

// LoadActive restores every active alert into the registry, typically at
// startup.
func (r *Repository) LoadActive(ctx context.Context, registry *Registry) (int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, symbol, type, condition, status,
		       created_at, expires_at, triggered_at, triggered_value
		FROM alerts
		WHERE status = $1
	`, string(contracts.AlertActive))
	if err != nil {
		return 0, fmt.Errorf("query active alerts: %w", err)
	}
	defer rows.Close()

	restored := 0
	for rows.Next() {
		var (
			alert         contracts.Alert
			typ, status   string
			conditionJSON []byte
			expiresAt     *time.Time
		)
		if err := rows.Scan(&alert.ID, &alert.Symbol, &typ, &conditionJSON, &status,
			&alert.CreatedAt, &expiresAt, &alert.TriggeredAt, &alert.TriggeredValue); err != nil {
			return restored, fmt.Errorf("scan alert row: %w", err)
		}
		if err := json.Unmarshal(conditionJSON, &alert.Condition); err != nil {
			return restored, fmt.Errorf("unmarshal condition for %s: %w", alert.ID, err)
		}
		if expiresAt != nil {
			alert.ExpiresAt = *expiresAt
		}
		alert.Type = contracts.AlertType(typ)
		alert.Status = contracts.AlertStatus(status)

		if err := registry.Restore(alert); err != nil {
			return restored, err
		}
		restored++
	}
	if err := rows.Err(); err != nil {
		return restored, fmt.Errorf("iterate alerts: %w", err)
	}
	return restored, nil
}
