package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openclaw/stock/internal/scheduler"
	"github.com/openclaw/stock/pkg/logger"
)

// SchedulerHandler exposes job stats and manual triggers.
type SchedulerHandler struct {
	scheduler *scheduler.Scheduler
	logger    *logger.Logger
}

// NewSchedulerHandler creates a new scheduler handler.
func NewSchedulerHandler(s *scheduler.Scheduler, log *logger.Logger) *SchedulerHandler {
	return &SchedulerHandler{
		scheduler: s,
		logger:    log,
	}
}

// Stats returns per-job execution statistics.
// GET /api/scheduler/stats
func (h *SchedulerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.scheduler.GetJobStats())
}

// Trigger runs a job immediately.
// POST /api/scheduler/jobs/{name}/run
func (h *SchedulerHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := h.scheduler.RunJob(name); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"job": name, "status": "started"})
}
