package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openclaw/stock/internal/analysis"
	"github.com/openclaw/stock/internal/marketdata"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <symbol>",
	Short: "Analyze a single security",
	Long: `Builds the full report for one security: indicators, signals,
support/resistance, fundamental assessment and both profile scores.
Output is JSON on stdout.

Example:
  go run ./cmd/claw analyze 600519`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	symbol := args[0]

	cfg, log, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	strategy, err := loadStrategy(cfg, log)
	if err != nil {
		return err
	}

	source := marketdata.NewPostgresSource(db.Pool, log)
	analyzer := analysis.NewAnalyzer(source, strategy, log)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DataSource.Timeout)
	defer cancel()

	report, err := analyzer.Analyze(ctx, symbol, time.Now())
	if err != nil {
		return fmt.Errorf("analyze %s: %w", symbol, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
