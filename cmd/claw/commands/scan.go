package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/internal/marketdata"
	"github.com/openclaw/stock/internal/selection"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run stock selection once",
	Long: `Screens the security universe, scores the survivors with the chosen
strategy profile and prints the ranked result.

Example:
  go run ./cmd/claw scan
  go run ./cmd/claw scan --profile long_term --save=false`,
	RunE: runScan,
}

var (
	scanProfile string
	scanSave    bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanProfile, "profile", "short_term", "strategy profile (short_term|long_term)")
	scanCmd.Flags().BoolVar(&scanSave, "save", true, "persist the result")
}

func runScan(cmd *cobra.Command, args []string) error {
	profile, err := contracts.ParseStrategyProfile(scanProfile)
	if err != nil {
		return err
	}

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
	pipeline := selection.NewPipeline(source, strategy, selection.Options{
		Workers:           cfg.DataSource.Workers,
		RequestsPerSecond: cfg.DataSource.RequestsPerSecond,
		Burst:             cfg.DataSource.Burst,
	}, log)

	ctx := context.Background()

	universe, err := source.Universe(ctx)
	if err != nil {
		return fmt.Errorf("load universe: %w", err)
	}

	started := time.Now()
	result, err := pipeline.Run(ctx, profile, time.Now(), universe)
	if err != nil {
		return fmt.Errorf("selection run: %w", err)
	}

	fmt.Printf("=== Selection: %s (%d candidates, %s) ===\n",
		profile, len(universe), time.Since(started).Round(time.Millisecond))
	fmt.Printf("%-5s %-10s %-16s %8s %8s %-6s %s\n",
		"RANK", "SYMBOL", "NAME", "PRICE", "SCORE", "RATING", "RECOMMENDATION")
	for _, stock := range result.Stocks {
		fmt.Printf("%-5d %-10s %-16s %8.2f %8.1f %-6s %s\n",
			stock.Rank, stock.Symbol, stock.Name, stock.Price,
			stock.Breakdown.TotalScore, stock.Breakdown.Rating, stock.Breakdown.Recommendation)
	}
	fmt.Printf("\nSelected %d, failed %d\n", result.Count(), len(result.Failures))
	for _, failure := range result.Failures {
		fmt.Printf("  %s: %s\n", failure.Symbol, failure.Reason)
	}

	if scanSave {
		repo := selection.NewRepository(db.Pool)
		if err := repo.SaveResult(ctx, result); err != nil {
			return fmt.Errorf("save result: %w", err)
		}
		log.Info("Selection result saved")
	}

	return nil
}
