package jobs

import (
	"context"
	"fmt"

	"github.com/openclaw/stock/internal/alerting"
	"github.com/openclaw/stock/pkg/logger"
)

// AlertJob runs one alert evaluation pass per tick.
type AlertJob struct {
	monitor  *alerting.Monitor
	schedule string
	logger   *logger.Logger
}

// NewAlertJob creates a new alert evaluation job.
func NewAlertJob(monitor *alerting.Monitor, schedule string, log *logger.Logger) *AlertJob {
	return &AlertJob{
		monitor:  monitor,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name.
func (j *AlertJob) Name() string {
	return "alert_evaluation"
}

// Schedule returns the configured cron expression.
func (j *AlertJob) Schedule() string {
	return j.schedule
}

// Run executes one evaluation pass.
func (j *AlertJob) Run(ctx context.Context) error {
	triggered, err := j.monitor.RunPass(ctx)
	if err != nil {
		return fmt.Errorf("alert pass: %w", err)
	}
	if triggered > 0 {
		j.logger.WithField("triggered", triggered).Info("Alert pass fired alerts")
	}
	return nil
}
