package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/stock/pkg/config"
	"github.com/openclaw/stock/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	runs     chan struct{}
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }
func (j *stubJob) Run(context.Context) error {
	j.runs <- struct{}{}
	return nil
}

func newTestScheduler() *Scheduler {
	log := logger.New(&config.Config{Env: "test", LogLevel: "error", LogFormat: "json"})
	return New(log)
}

func TestAddJobRejectsDuplicatesAndBadSpecs(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "a", schedule: "@hourly", runs: make(chan struct{}, 1)}

	require.NoError(t, s.AddJob(job))
	assert.Error(t, s.AddJob(job))

	bad := &stubJob{name: "b", schedule: "not a cron spec", runs: make(chan struct{}, 1)}
	assert.Error(t, s.AddJob(bad))

	assert.Equal(t, []string{"a"}, s.GetAllJobs())
}

func TestRemoveJob(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "a", schedule: "@hourly", runs: make(chan struct{}, 1)}

	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RemoveJob("a"))
	assert.Error(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
}

func TestStatsAfterRemoveJob(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "a", schedule: "@hourly", runs: make(chan struct{}, 1)}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("a"))
	select {
	case <-job.runs:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		history, err := s.GetJobHistory("a")
		require.NoError(t, err)
		if len(history.Results) > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no history recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Removal takes the history with it; stats over the remaining jobs
	// must not trip over the removed name.
	require.NoError(t, s.RemoveJob("a"))
	assert.NotContains(t, s.GetJobStats(), "a")
	_, err := s.GetJobHistory("a")
	assert.Error(t, err)
}

func TestRunJobRecordsHistory(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "a", schedule: "@hourly", runs: make(chan struct{}, 1)}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("a"))

	select {
	case <-job.runs:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}

	// The result lands in history after Run returns.
	deadline := time.Now().Add(5 * time.Second)
	for {
		history, err := s.GetJobHistory("a")
		require.NoError(t, err)
		if len(history.Results) > 0 {
			assert.True(t, history.Results[0].Success)
			assert.Equal(t, "a", history.Results[0].JobName)
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no history recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}

	assert.Error(t, s.RunJob("missing"))
}

func TestJobHistoryWindow(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+20; i++ {
		h.AddResult(JobResult{JobName: fmt.Sprintf("r%d", i), Success: i%2 == 0})
	}

	assert.Len(t, h.Results, historyLimit)
	assert.Len(t, h.GetLatestResults(10), 10)
	assert.Equal(t, 0.5, h.GetSuccessRate())
	assert.Len(t, h.GetFailedResults(), historyLimit/2)
}
