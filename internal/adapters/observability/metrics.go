package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripdesk", Name: "http_requests_total", Help: "HTTP requests served."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tripdesk", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripdesk", Name: "external_requests_total", Help: "Outbound backend requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tripdesk", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	StateEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripdesk", Name: "state_events_total", Help: "Persisted client state reads/writes."},
		[]string{"store", "event"}, // event: hit|miss|set|del
	)
	SessionTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripdesk", Name: "session_transitions_total", Help: "Sign-in/sign-out transitions."},
		[]string{"transition"},
	)
	PaymentSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripdesk", Name: "payment_steps_total", Help: "Mock payment loop outcomes per room item or itinerary."},
		[]string{"outcome"}, // captured|abandoned|accepted
	)
	DashboardSections = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripdesk", Name: "dashboard_sections_total", Help: "Dashboard sections loaded, by role and result."},
		[]string{"role", "section", "result"},
	)
)

// Serve exposes the default registry on addr. Empty addr disables it.
func Serve(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(InitRegistry()))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, StateEvents, SessionTransitions, PaymentSteps, DashboardSections)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveExternal records one outbound call. status 0 means the request never got an answer.
func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveState(store, event string) {
	StateEvents.WithLabelValues(store, event).Inc()
}

func ObserveSession(transition string) {
	SessionTransitions.WithLabelValues(transition).Inc()
}

func ObservePayment(outcome string) {
	PaymentSteps.WithLabelValues(outcome).Inc()
}

// ObserveDashboard counts one dashboard section load.
func ObserveDashboard(role, section string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	DashboardSections.WithLabelValues(role, section, result).Inc()
}
