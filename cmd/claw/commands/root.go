package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaw/stock/internal/strategyconfig"
	"github.com/openclaw/stock/pkg/config"
	"github.com/openclaw/stock/pkg/database"
	"github.com/openclaw/stock/pkg/logger"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "claw",
	Short: "OpenClaw stock selection and alerting service",
	Long: `OpenClaw computes technical indicators over locally ingested market
data, scores candidates with short-term and long-term strategy profiles,
and evaluates price, volume, technical and news alerts.

Usage:
  go run ./cmd/claw [command]

Examples:
  go run ./cmd/claw api
  go run ./cmd/claw scan --profile short_term
  go run ./cmd/claw analyze 600519
  go run ./cmd/claw alerts list`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML file (default built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// setup loads runtime config, builds the logger and opens the database.
// Every command starts here; the caller owns db.Close().
func setup() (*config.Config, *logger.Logger, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	return cfg, log, db, nil
}

// loadStrategy resolves the strategy config: --strategy flag first, then
// STRATEGY_PATH, then built-in defaults.
func loadStrategy(cfg *config.Config, log *logger.Logger) (*strategyconfig.Config, error) {
	path := strategyFile
	if path == "" {
		path = cfg.StrategyPath
	}
	if path == "" {
		log.Debug("Using built-in strategy defaults")
		return strategyconfig.Default(), nil
	}

	strategy, _, err := strategyconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load strategy %s: %w", path, err)
	}

	hash, err := strategyconfig.Hash(strategy)
	if err != nil {
		return nil, fmt.Errorf("hash strategy: %w", err)
	}
	log.WithFields(map[string]interface{}{
		"path": path,
		"hash": hash[:12],
	}).Info("Loaded strategy config")

	return strategy, nil
}
