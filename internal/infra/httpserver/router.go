package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/aiops/fraud-wizard/internal/application/analysis"
	"github.com/aiops/fraud-wizard/internal/domain/fraud"
	"github.com/aiops/fraud-wizard/internal/middleware"
)

// Options tunes the router beyond its service dependencies.
type Options struct {
	AllowedOrigins    []string
	RateLimitEnabled  bool
	RateLimitCapacity int
	RateLimitPerSec   int
}

type Router struct {
	svc     *analysis.Service
	dbCheck middleware.HealthChecker // nil when no store is configured
}

// NewRouter wires the HTTP surface: /health, /alerts, /analyze, /metrics.
func NewRouter(svc *analysis.Service, dbCheck middleware.HealthChecker, opts Options) http.Handler {
	r := &Router{svc: svc, dbCheck: dbCheck}
	mux := chi.NewRouter()

	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(opts.AllowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}
	if opts.RateLimitEnabled {
		mux.Use(middleware.RateLimitMiddleware(opts.RateLimitCapacity, opts.RateLimitPerSec))
	}

	mux.Get("/health", r.handleHealth)
	mux.Get("/alerts", r.handleAlerts)
	mux.Post("/analyze", r.handleAnalyze)
	mux.Get("/metrics", middleware.MetricsHandler)

	return mux
}

type healthInfo struct {
	Status string `json:"status"`
	DB     string `json:"db"`
}

// GET /health
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	info := healthInfo{Status: "ok"}
	switch {
	case r.dbCheck == nil:
		info.DB = "disconnected"
	default:
		if err := r.dbCheck.Check(req.Context()); err != nil {
			info.DB = "error: " + err.Error()
		} else {
			info.DB = "ok"
		}
	}
	writeJSON(w, http.StatusOK, info)
}

// alertView is the projection of a fraud log exposed on /alerts.
type alertView struct {
	TransactionID   string    `json:"transaction_id"`
	RiskScore       float64   `json:"risk_score"`
	AIReason        string    `json:"ai_reason"`
	SuggestedAction string    `json:"suggested_action"`
	CreatedAt       time.Time `json:"created_at"`
}

// GET /alerts?limit=50
func (r *Router) handleAlerts(w http.ResponseWriter, req *http.Request) {
	limit := 50
	if v := req.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	logs, err := r.svc.Alerts(req.Context(), limit)
	if err != nil {
		// Store problems are reported in-band, the endpoint itself stays up.
		writeJSON(w, http.StatusOK, map[string]any{
			"error":  err.Error(),
			"alerts": []alertView{},
		})
		return
	}

	out := make([]alertView, 0, len(logs))
	for _, l := range logs {
		out = append(out, alertView{
			TransactionID:   l.TransactionID,
			RiskScore:       l.RiskScore,
			AIReason:        l.AIReason,
			SuggestedAction: l.SuggestedAction,
			CreatedAt:       l.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /analyze
// Body: Transaction JSON (amount and currency required).
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) {
	var tx fraud.Transaction
	if err := json.NewDecoder(req.Body).Decode(&tx); err != nil {
		env := fraud.NewErrorEnvelope("invalid_transaction", "malformed JSON body: "+err.Error(), time.Now())
		writeJSON(w, http.StatusBadRequest, env)
		return
	}
	if err := tx.Validate(); err != nil {
		env := fraud.NewErrorEnvelope("invalid_transaction", err.Error(), time.Now())
		writeJSON(w, http.StatusBadRequest, env)
		return
	}

	env := r.svc.Analyze(req.Context(), tx)
	status := http.StatusOK
	if env.Error != nil {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, env)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
