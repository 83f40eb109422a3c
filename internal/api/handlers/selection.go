package handlers

import (
	"net/http"
	"time"

	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/internal/scheduler/jobs"
	"github.com/openclaw/stock/internal/selection"
	"github.com/openclaw/stock/pkg/logger"
)

// SelectionHandler exposes selection runs and stored results.
type SelectionHandler struct {
	pipeline *selection.Pipeline
	repo     *selection.Repository
	universe jobs.UniverseProvider
	logger   *logger.Logger
}

// NewSelectionHandler creates a new selection handler. repo may be nil when
// persistence is not configured.
func NewSelectionHandler(
	pipeline *selection.Pipeline,
	repo *selection.Repository,
	universe jobs.UniverseProvider,
	log *logger.Logger,
) *SelectionHandler {
	return &SelectionHandler{
		pipeline: pipeline,
		repo:     repo,
		universe: universe,
		logger:   log,
	}
}

func parseProfile(r *http.Request) (contracts.StrategyProfile, bool) {
	raw := r.URL.Query().Get("profile")
	if raw == "" {
		return contracts.ShortTerm, true
	}
	profile, err := contracts.ParseStrategyProfile(raw)
	if err != nil {
		return 0, false
	}
	return profile, true
}

// Run triggers a selection run synchronously and returns the result.
// POST /api/selection/run?profile=short_term
func (h *SelectionHandler) Run(w http.ResponseWriter, r *http.Request) {
	profile, ok := parseProfile(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown profile")
		return
	}

	universe, err := h.universe.Universe(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Universe load failed")
		writeError(w, http.StatusInternalServerError, "universe unavailable")
		return
	}

	result, err := h.pipeline.Run(r.Context(), profile, time.Now(), universe)
	if err != nil {
		h.logger.WithError(err).Error("Selection run failed")
		writeError(w, http.StatusInternalServerError, "selection run failed")
		return
	}

	if h.repo != nil {
		if err := h.repo.SaveResult(r.Context(), result); err != nil {
			h.logger.WithError(err).Warn("Selection persistence failed")
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// Latest returns the stored result for a date (default today).
// GET /api/selection?profile=long_term&date=2025-06-01
func (h *SelectionHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusNotFound, "selection persistence not configured")
		return
	}

	profile, ok := parseProfile(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown profile")
		return
	}

	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	result, err := h.repo.GetResult(r.Context(), date, profile)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
