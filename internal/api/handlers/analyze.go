package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/openclaw/stock/internal/analysis"
	"github.com/openclaw/stock/internal/contracts"
	"github.com/openclaw/stock/pkg/logger"
)

// AnalyzeHandler exposes single-symbol analysis.
type AnalyzeHandler struct {
	analyzer *analysis.Analyzer
	logger   *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(analyzer *analysis.Analyzer, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		logger:   log,
	}
}

// Get builds a full report for one symbol.
// GET /api/analyze/{symbol}
func (h *AnalyzeHandler) Get(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	report, err := h.analyzer.Analyze(r.Context(), symbol, time.Now())
	if err != nil {
		if contracts.IsDataUnavailable(err) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.WithField("symbol", symbol).WithError(err).Error("Analysis failed")
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, report)
}
