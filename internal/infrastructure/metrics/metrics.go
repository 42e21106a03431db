package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"hospital-admin/internal/engine"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for the authorization engine and the HTTP layer.
// It implements engine.Observer.
type Metrics struct {
	// Authorization decisions by resource, target, intent and outcome
	Decisions *prometheus.CounterVec

	// Lifecycle and workflow transitions by resource and edge
	Transitions *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec

	HTTPDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers every metric on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hospital_authz_decisions_total",
			Help: "Total authorization decisions by resource, target, intent and outcome",
		}, []string{"resource", "target", "intent", "outcome"}), // outcome: "allowed", "forbidden", "not_owner", "misconfigured"

		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hospital_state_transitions_total",
			Help: "Total state transitions by resource and edge",
		}, []string{"resource", "from", "to"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hospital_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status_code"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hospital_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		gatherer: reg,
	}
}

// ObserveDecision records one authorization decision
func (m *Metrics) ObserveDecision(resource engine.ResourceType, target engine.Target, intent engine.Intent, d engine.Decision) {
	if m != nil {
		m.Decisions.WithLabelValues(string(resource), string(target), intent.String(), outcome(d)).Inc()
	}
}

// ObserveTransition records one state machine edge
func (m *Metrics) ObserveTransition(resource engine.ResourceType, from, to string) {
	if m != nil {
		m.Transitions.WithLabelValues(string(resource), from, to).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// HTTPMiddleware records request counts and latencies labelled by route template
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		route := routeTemplate(r)
		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(wrapper.statusCode)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func outcome(d engine.Decision) string {
	if d.Allowed {
		return "allowed"
	}
	var notOwner *engine.NotOwnerError
	switch {
	case errors.As(d.Reason, &notOwner):
		return "not_owner"
	case errors.Is(d.Reason, engine.ErrConfiguration):
		return "misconfigured"
	default:
		return "forbidden"
	}
}

// routeTemplate avoids one label value per record id
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
