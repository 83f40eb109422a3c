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
	"github.com/openclaw/stock/internal/analysis"
	"github.com/openclaw/stock/internal/api"
	"github.com/openclaw/stock/internal/api/handlers"
	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/internal/marketdata"
	"github.com/openclaw/stock/internal/scheduler"
	"github.com/openclaw/stock/internal/scheduler/jobs"
	"github.com/openclaw/stock/internal/selection"
	"github.com/openclaw/stock/pkg/config"
	"github.com/openclaw/stock/pkg/logger"
	"github.com/openclaw/stock/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server, and the background scheduler when
SCHEDULER_ENABLED is set.

Endpoints:
  GET    /health
  POST   /api/alerts
  GET    /api/alerts
  GET    /api/alerts/{id}
  DELETE /api/alerts/{id}
  POST   /api/selection/run
  GET    /api/selection
  GET    /api/analyze/{symbol}
  GET    /api/scheduler/stats

Example:
  go run ./cmd/claw api
  go run ./cmd/claw api --port 8086`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	if apiPort != "" {
		cfg.Port = apiPort
	}

	strategy, err := loadStrategy(cfg, log)
	if err != nil {
		return err
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	// Data plane
	source := marketdata.NewPostgresSource(db.Pool, log)
	cache := redis.NewCache(redisClient, "claw")

	// Alerting
	registry := alerting.NewRegistry(log)
	alertRepo := alerting.NewRepository(db.Pool)
	restoreCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	restored, err := alertRepo.LoadActive(restoreCtx, registry)
	cancel()
	if err != nil {
		return fmt.Errorf("restore alerts: %w", err)
	}
	log.WithFields(map[string]interface{}{"restored": restored}).Info("Alert registry restored")

	evaluator := alerting.NewEvaluator(registry, strategy.Alerts, log)
	monitor := alerting.NewMonitor(source, registry, evaluator, alerting.NewLogSink(log), cache, strategy, log)

	// Selection + analysis
	pipeline := selection.NewPipeline(source, strategy, selection.Options{
		Workers:           cfg.DataSource.Workers,
		RequestsPerSecond: cfg.DataSource.RequestsPerSecond,
		Burst:             cfg.DataSource.Burst,
	}, log)
	selectionRepo := selection.NewRepository(db.Pool)
	analyzer := analysis.NewAnalyzer(source, strategy, log)

	h := api.Handlers{
		Alerts:    handlers.NewAlertsHandler(registry, alertRepo, log),
		Selection: handlers.NewSelectionHandler(pipeline, selectionRepo, source, log),
		Analyze:   handlers.NewAnalyzeHandler(analyzer, log),
	}

	// Scheduler runs in-process alongside the API when enabled.
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(log)
		if err := registerJobs(sched, cfg, monitor, pipeline, selectionRepo, source, log); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		h.Scheduler = handlers.NewSchedulerHandler(sched, log)
	}

	router := api.NewRouter(h, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.WithFields(map[string]interface{}{
		"port":      cfg.Port,
		"scheduler": cfg.Scheduler.Enabled,
	}).Info("API server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// registerJobs wires the periodic alert pass and the per-profile daily
// selection runs.
func registerJobs(
	sched *scheduler.Scheduler,
	cfg *config.Config,
	monitor *alerting.Monitor,
	pipeline *selection.Pipeline,
	repo *selection.Repository,
	universe jobs.UniverseProvider,
	log *logger.Logger,
) error {
	register := []scheduler.Job{
		jobs.NewAlertJob(monitor, cfg.Scheduler.AlertSpec, log),
		jobs.NewSelectionJob(pipeline, repo, universe, contracts.ShortTerm, cfg.Scheduler.SelectionSpec, log),
		jobs.NewSelectionJob(pipeline, repo, universe, contracts.LongTerm, cfg.Scheduler.SelectionSpec, log),
	}
	for _, job := range register {
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("register job %s: %w", job.Name(), err)
		}
	}
	return nil
}
