package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal      uint64
	RequestsInProgress uint64
	RequestsSuccess    uint64
	RequestsFailed     uint64
	AnalysesTotal      uint64
	FallbacksTotal     uint64
	StartTime          time.Time

	mu              sync.Mutex
	analysesByRisk  map[string]uint64
	fallbackReasons map[string]uint64
}

var globalMetrics = &Metrics{
	StartTime:       time.Now(),
	analysesByRisk:  make(map[string]uint64),
	fallbackReasons: make(map[string]uint64),
}

// IncrementRequests increments total request counter
func IncrementRequests() {
	atomic.AddUint64(&globalMetrics.RequestsTotal, 1)
}

// IncrementInProgress increments in-progress request counter
func IncrementInProgress() {
	atomic.AddUint64(&globalMetrics.RequestsInProgress, 1)
}

// DecrementInProgress decrements in-progress request counter
func DecrementInProgress() {
	atomic.AddUint64(&globalMetrics.RequestsInProgress, ^uint64(0))
}

// IncrementSuccess increments successful request counter
func IncrementSuccess() {
	atomic.AddUint64(&globalMetrics.RequestsSuccess, 1)
}

// IncrementFailed increments failed request counter
func IncrementFailed() {
	atomic.AddUint64(&globalMetrics.RequestsFailed, 1)
}

// IncrementAnalyses counts one completed analysis, broken down by risk level.
func IncrementAnalyses(riskLevel string) {
	atomic.AddUint64(&globalMetrics.AnalysesTotal, 1)
	globalMetrics.mu.Lock()
	globalMetrics.analysesByRisk[riskLevel]++
	globalMetrics.mu.Unlock()
}

// IncrementFallbacks counts one explanation fallback, broken down by reason
// (not_configured, timeout, request_failed, malformed_response,
// invalid_explanation). The reason never reaches the caller, so this is the
// operator's view into why the wizard degraded.
func IncrementFallbacks(reason string) {
	atomic.AddUint64(&globalMetrics.FallbacksTotal, 1)
	globalMetrics.mu.Lock()
	globalMetrics.fallbackReasons[reason]++
	globalMetrics.mu.Unlock()
}

// Recorder adapts the process-wide counters to the application layer's
// metrics port so use-case code never imports this package.
type Recorder struct{}

// Analysis counts one completed analysis by risk level.
func (Recorder) Analysis(riskLevel string) { IncrementAnalyses(riskLevel) }

// Fallback counts one explanation fallback by reason.
func (Recorder) Fallback(reason string) { IncrementFallbacks(reason) }

// GetMetrics returns current metrics
func GetMetrics() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	globalMetrics.mu.Lock()
	byRisk := make(map[string]uint64, len(globalMetrics.analysesByRisk))
	for k, v := range globalMetrics.analysesByRisk {
		byRisk[k] = v
	}
	byReason := make(map[string]uint64, len(globalMetrics.fallbackReasons))
	for k, v := range globalMetrics.fallbackReasons {
		byReason[k] = v
	}
	globalMetrics.mu.Unlock()

	return map[string]interface{}{
		"requests_total":       atomic.LoadUint64(&globalMetrics.RequestsTotal),
		"requests_in_progress": atomic.LoadUint64(&globalMetrics.RequestsInProgress),
		"requests_success":     atomic.LoadUint64(&globalMetrics.RequestsSuccess),
		"requests_failed":      atomic.LoadUint64(&globalMetrics.RequestsFailed),
		"analyses_total":       atomic.LoadUint64(&globalMetrics.AnalysesTotal),
		"analyses_by_risk":     byRisk,
		"fallbacks_total":      atomic.LoadUint64(&globalMetrics.FallbacksTotal),
		"fallbacks_by_reason":  byReason,
		"uptime_seconds":       time.Since(globalMetrics.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       m.Alloc,
			"total_alloc_bytes": m.TotalAlloc,
			"sys_bytes":         m.Sys,
			"num_gc":            m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// MetricsMiddleware tracks request metrics
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		IncrementRequests()
		IncrementInProgress()
		defer DecrementInProgress()

		// Wrap response writer to capture status
		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		// Track success/failure based on status code
		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			IncrementSuccess()
		} else {
			IncrementFailed()
		}
	})
}

// MetricsHandler returns metrics as JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetMetrics())
}
