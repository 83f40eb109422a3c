package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/openclaw/stock/internal/api/handlers"
	"github.com/openclaw/stock/pkg/logger"
)

// Handlers bundles the route handlers. Nil fields leave their routes
// unregistered, so a stripped-down deployment can serve a subset.
type Handlers struct {
	Alerts    *handlers.AlertsHandler
	Selection *handlers.SelectionHandler
	Analyze   *handlers.AnalyzeHandler
	Scheduler *handlers.SchedulerHandler
}

// NewRouter creates and configures the HTTP router.
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	if h.Alerts != nil {
		api.HandleFunc("/alerts", h.Alerts.Create).Methods("POST")
		api.HandleFunc("/alerts", h.Alerts.List).Methods("GET")
		api.HandleFunc("/alerts/{id}", h.Alerts.Get).Methods("GET")
		api.HandleFunc("/alerts/{id}", h.Alerts.Cancel).Methods("DELETE")
	}

	if h.Selection != nil {
		api.HandleFunc("/selection/run", h.Selection.Run).Methods("POST")
		api.HandleFunc("/selection", h.Selection.Latest).Methods("GET")
	}

	if h.Analyze != nil {
		api.HandleFunc("/analyze/{symbol}", h.Analyze.Get).Methods("GET")
	}

	if h.Scheduler != nil {
		api.HandleFunc("/scheduler/stats", h.Scheduler.Stats).Methods("GET")
		api.HandleFunc("/scheduler/jobs/{name}/run", h.Scheduler.Trigger).Methods("POST")
	}

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "openclaw-stock-api",
	})
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics.
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
