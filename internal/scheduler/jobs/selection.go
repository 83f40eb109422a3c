package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/internal/selection"
	"github.com/openclaw/stock/pkg/logger"
)

// UniverseProvider supplies the candidate universe for a selection run.
type UniverseProvider interface {
	Universe(ctx context.Context) ([]selection.Candidate, error)
}

// StaticUniverse is a fixed candidate list, useful for config-driven
// watchlists and tests.
type StaticUniverse []selection.Candidate

func (u StaticUniverse) Universe(context.Context) ([]selection.Candidate, error) {
	return u, nil
}

// SelectionJob runs the daily stock selection for one strategy profile and
// persists the result.
type SelectionJob struct {
	pipeline *selection.Pipeline
	repo     *selection.Repository
	universe UniverseProvider
	profile  contracts.StrategyProfile
	schedule string
	logger   *logger.Logger
}

// NewSelectionJob creates a new selection job. repo may be nil when
// persistence is not configured.
func NewSelectionJob(
	pipeline *selection.Pipeline,
	repo *selection.Repository,
	universe UniverseProvider,
	profile contracts.StrategyProfile,
	schedule string,
	log *logger.Logger,
) *SelectionJob {
	return &SelectionJob{
		pipeline: pipeline,
		repo:     repo,
		universe: universe,
		profile:  profile,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name.
func (j *SelectionJob) Name() string {
	return fmt.Sprintf("selection_%s", j.profile)
}

// Schedule returns the configured cron expression.
func (j *SelectionJob) Schedule() string {
	return j.schedule
}

// Run executes one selection run.
func (j *SelectionJob) Run(ctx context.Context) error {
	universe, err := j.universe.Universe(ctx)
	if err != nil {
		return fmt.Errorf("load universe: %w", err)
	}

	result, err := j.pipeline.Run(ctx, j.profile, time.Now(), universe)
	if err != nil {
		return fmt.Errorf("selection run: %w", err)
	}

	if j.repo != nil {
		if err := j.repo.SaveResult(ctx, result); err != nil {
			return fmt.Errorf("persist selection: %w", err)
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"profile":  j.profile.String(),
		"selected": result.Count(),
		"failed":   len(result.Failures),
	}).Info("Scheduled selection completed")

	return nil
}
