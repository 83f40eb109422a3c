package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openclaw/stock/internal/alerting"
	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/pkg/database"
	"github.com/openclaw/stock/pkg/logger"
)

// alertsCmd represents the alerts command
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Manage alerts",
	Long: `Create, list and cancel alerts from the command line.

Subcommands:
  list    - list stored alerts
  create  - create a new alert
  cancel  - cancel an active alert

Example:
  go run ./cmd/claw alerts list
  go run ./cmd/claw alerts create 600519 price --operator above --value 1800
  go run ./cmd/claw alerts cancel 600519_price_20260830...`,
}

var (
	alertListSymbol string
	alertListStatus string

	alertOperator  string
	alertValue     float64
	alertIndicator string
	alertExpiresIn time.Duration
)

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored alerts",
	RunE:  runAlertsList,
}

var alertsCreateCmd = &cobra.Command{
	Use:   "create <symbol> <type>",
	Short: "Create an alert (type: price|volume|technical|news)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAlertsCreate,
}

var alertsCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel an active alert",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertsCancel,
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsListCmd, alertsCreateCmd, alertsCancelCmd)

	alertsListCmd.Flags().StringVar(&alertListSymbol, "symbol", "", "filter by symbol")
	alertsListCmd.Flags().StringVar(&alertListStatus, "status", "", "filter by status (active|triggered|expired|cancelled)")

	alertsCreateCmd.Flags().StringVar(&alertOperator, "operator", "", "above|below|golden_cross|death_cross|overbought|oversold")
	alertsCreateCmd.Flags().Float64Var(&alertValue, "value", 0, "threshold for price/volume alerts")
	alertsCreateCmd.Flags().StringVar(&alertIndicator, "indicator", "", "macd|ma|rsi for technical alerts")
	alertsCreateCmd.Flags().DurationVar(&alertExpiresIn, "expires-in", 0, "time until expiry (0 = never)")
}

// openRegistry loads every stored alert into a fresh registry so list and
// cancel see the same state the server does.
func openRegistry(ctx context.Context, db *database.DB, log *logger.Logger) (*alerting.Registry, *alerting.Repository, error) {
	registry := alerting.NewRegistry(log)
	repo := alerting.NewRepository(db.Pool)
	if _, err := repo.LoadActive(ctx, registry); err != nil {
		return nil, nil, fmt.Errorf("load alerts: %w", err)
	}
	return registry, repo, nil
}

func runAlertsList(cmd *cobra.Command, args []string) error {
	_, log, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	registry, _, err := openRegistry(ctx, db, log)
	if err != nil {
		return err
	}

	alerts := registry.List(alertListSymbol, contracts.AlertStatus(alertListStatus))
	if len(alerts) == 0 {
		fmt.Println("No alerts")
		return nil
	}

	fmt.Printf("%-44s %-10s %-10s %-10s %s\n", "ID", "SYMBOL", "TYPE", "STATUS", "CONDITION")
	for _, a := range alerts {
		cond := string(a.Condition.Operator)
		if a.Condition.Indicator != "" {
			cond = a.Condition.Indicator + " " + cond
		}
		if a.Condition.Value != 0 {
			cond = fmt.Sprintf("%s %.2f", cond, a.Condition.Value)
		}
		fmt.Printf("%-44s %-10s %-10s %-10s %s\n", a.ID, a.Symbol, a.Type, a.Status, cond)
	}
	return nil
}

func runAlertsCreate(cmd *cobra.Command, args []string) error {
	symbol, typ := args[0], contracts.AlertType(args[1])

	_, log, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	registry := alerting.NewRegistry(log)
	repo := alerting.NewRepository(db.Pool)

	var expiresAt time.Time
	if alertExpiresIn > 0 {
		expiresAt = time.Now().Add(alertExpiresIn)
	}

	alert, err := registry.Create(symbol, typ, contracts.AlertCondition{
		Operator:  contracts.AlertOperator(alertOperator),
		Value:     alertValue,
		Indicator: alertIndicator,
	}, expiresAt)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := repo.Save(ctx, alert); err != nil {
		return fmt.Errorf("save alert: %w", err)
	}

	fmt.Printf("Created alert %s\n", alert.ID)
	return nil
}

func runAlertsCancel(cmd *cobra.Command, args []string) error {
	id := args[0]

	_, log, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	registry, repo, err := openRegistry(ctx, db, log)
	if err != nil {
		return err
	}

	alert, err := registry.Cancel(id)
	if err != nil {
		return err
	}
	if err := repo.Save(ctx, alert); err != nil {
		return fmt.Errorf("save alert: %w", err)
	}

	fmt.Printf("Cancelled alert %s\n", alert.ID)
	return nil
}
