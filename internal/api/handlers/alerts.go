package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/openclaw/stock/internal/alerting"
	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/pkg/logger"
)

// AlertsHandler exposes alert CRUD over HTTP.
type AlertsHandler struct {
	registry *alerting.Registry
	repo     *alerting.Repository
	logger   *logger.Logger
}

// NewAlertsHandler creates a new alerts handler. repo may be nil when
// persistence is not configured.
func NewAlertsHandler(registry *alerting.Registry, repo *alerting.Repository, log *logger.Logger) *AlertsHandler {
	return &AlertsHandler{
		registry: registry,
		repo:     repo,
		logger:   log,
	}
}

// CreateAlertRequest is the POST /api/alerts payload.
type CreateAlertRequest struct {
	Symbol    string                   `json:"symbol"`
	Type      contracts.AlertType      `json:"type"`
	Condition contracts.AlertCondition `json:"condition"`
	ExpiresAt *time.Time               `json:"expires_at,omitempty"`
}

// Create registers a new alert.
// POST /api/alerts
func (h *AlertsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var expiresAt time.Time
	if req.ExpiresAt != nil {
		expiresAt = *req.ExpiresAt
	}

	alert, err := h.registry.Create(req.Symbol, req.Type, req.Condition, expiresAt)
	if err != nil {
		if contracts.IsInvalidCondition(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Alert creation failed")
		writeError(w, http.StatusInternalServerError, "alert creation failed")
		return
	}

	h.persist(r, alert)
	writeJSON(w, http.StatusCreated, alert)
}

// List returns alerts, filterable by symbol and status.
// GET /api/alerts?symbol=600519&status=active
func (h *AlertsHandler) List(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	status := contracts.AlertStatus(r.URL.Query().Get("status"))

	alerts := h.registry.List(symbol, status)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

// Get returns one alert by id.
// GET /api/alerts/{id}
func (h *AlertsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	alert, ok := h.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "alert not found")
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

// Cancel cancels an active alert.
// DELETE /api/alerts/{id}
func (h *AlertsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	alert, err := h.registry.Cancel(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, "alert not found")
			return
		}
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	h.persist(r, alert)
	writeJSON(w, http.StatusOK, alert)
}

func (h *AlertsHandler) persist(r *http.Request, alert contracts.Alert) {
	if h.repo == nil {
		return
	}
	if err := h.repo.Save(r.Context(), alert); err != nil {
		h.logger.WithField("alert_id", alert.ID).WithError(err).Warn("Alert persistence failed")
	}
}
