package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 30, 60},
		},
		[]string{"route", "method"},
	)

	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests by provider and operation",
		},
		[]string{"provider", "operation"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider", "operation"},
	)
	AIPromptTokens = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_prompt_tokens",
			Help:    "Estimated prompt token count per AI call",
			Buckets: []float64{128, 256, 512, 1024, 2048, 4096, 8192},
		},
		[]string{"operation"},
	)

	ApplicationsStartedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applications_started_total",
			Help: "Applications created, by listing kind",
		},
		[]string{"kind"},
	)
	ApplicationsResumedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applications_resumed_total",
			Help: "Start requests answered from an existing application",
		},
		[]string{"kind"},
	)
	AIParseFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_parse_fallbacks_total",
			Help: "Model responses that failed parsing and used the deterministic fallback",
		},
		[]string{"operation"},
	)

	// MatchScoreHistogram tracks the analysis outcome distribution.
	MatchScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "application_match_score",
			Help:    "Distribution of match_score (0-100)",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(AIRequestsTotal)
	prometheus.MustRegister(AIRequestDuration)
	prometheus.MustRegister(AIPromptTokens)
	prometheus.MustRegister(ApplicationsStartedTotal)
	prometheus.MustRegister(ApplicationsResumedTotal)
	prometheus.MustRegister(AIParseFallbacksTotal)
	prometheus.MustRegister(MatchScoreHistogram)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// ObserveApplicationStarted records a freshly created application.
func ObserveApplicationStarted(kind string, matchScore int) {
	ApplicationsStartedTotal.WithLabelValues(kind).Inc()
	if matchScore >= 0 && matchScore <= 100 {
		MatchScoreHistogram.Observe(float64(matchScore))
	}
}

// ObserveApplicationResumed records an idempotent resume.
func ObserveApplicationResumed(kind string) {
	ApplicationsResumedTotal.WithLabelValues(kind).Inc()
}

// ObserveParseFallback records a parse failure resolved by fallback values.
func ObserveParseFallback(operation string) {
	AIParseFallbacksTotal.WithLabelValues(operation).Inc()
}
