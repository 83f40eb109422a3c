package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openclaw/stock/internal/alerting"
	"github.com/openclaw/stock/internal/marketdata"
	"github.com/openclaw/stock/internal/scheduler"
	"github.com/openclaw/stock/internal/selection"
	"github.com/openclaw/stock/pkg/redis"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the background scheduler",
	Long: `Runs the scheduler daemon without the HTTP API.

Registered jobs:
  alert_evaluation      - periodic alert evaluation pass
  selection_short_term  - daily short-term selection run
  selection_long_term   - daily long-term selection run

Example:
  go run ./cmd/claw scheduler
  go run ./cmd/claw scheduler --run alert_evaluation`,
	RunE: runScheduler,
}

var schedulerRunOnce string

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().StringVar(&schedulerRunOnce, "run", "", "run one job immediately and exit")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	strategy, err := loadStrategy(cfg, log)
	if err != nil {
		return err
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	source := marketdata.NewPostgresSource(db.Pool, log)
	cache := redis.NewCache(redisClient, "claw")

	registry := alerting.NewRegistry(log)
	alertRepo := alerting.NewRepository(db.Pool)
	restoreCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	_, err = alertRepo.LoadActive(restoreCtx, registry)
	cancel()
	if err != nil {
		return fmt.Errorf("restore alerts: %w", err)
	}

	evaluator := alerting.NewEvaluator(registry, strategy.Alerts, log)
	monitor := alerting.NewMonitor(source, registry, evaluator, alerting.NewLogSink(log), cache, strategy, log)

	pipeline := selection.NewPipeline(source, strategy, selection.Options{
		Workers:           cfg.DataSource.Workers,
		RequestsPerSecond: cfg.DataSource.RequestsPerSecond,
		Burst:             cfg.DataSource.Burst,
	}, log)
	selectionRepo := selection.NewRepository(db.Pool)

	sched := scheduler.New(log)
	if err := registerJobs(sched, cfg, monitor, pipeline, selectionRepo, source, log); err != nil {
		return err
	}

	if schedulerRunOnce != "" {
		if err := sched.RunJob(schedulerRunOnce); err != nil {
			return err
		}
		// RunJob is asynchronous; give the job a moment and report.
		time.Sleep(time.Second)
		printStats(sched)
		return nil
	}

	sched.Start()
	log.WithFields(map[string]interface{}{
		"jobs": sched.GetAllJobs(),
	}).Info("Scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Stopping scheduler...")
	sched.Stop()
	printStats(sched)
	return nil
}

func printStats(sched *scheduler.Scheduler) {
	fmt.Printf("%-24s %6s %8s %8s %s\n", "JOB", "RUNS", "OK", "FAIL", "LAST")
	for name, stats := range sched.GetJobStats() {
		last := "-"
		if stats.LastRun != nil {
			last = stats.LastRun.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%-24s %6d %8d %8d %s\n", name, stats.TotalRuns, stats.SuccessCount, stats.FailureCount, last)
	}
}
