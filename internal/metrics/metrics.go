package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/ErlanBelekov/notes-api/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Auth metrics

	OTPSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "notes",
		Name:      "otp_sent_total",
		Help:      "Total OTP emails dispatched.",
	})

	OTPVerifyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notes",
		Name:      "otp_verify_total",
		Help:      "Total OTP verification attempts, by outcome.",
	}, []string{"outcome"})

	OTPPurgedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "notes",
		Name:      "otp_purged_total",
		Help:      "Expired OTP rows removed by the purger.",
	})

	LoginTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notes",
		Name:      "login_total",
		Help:      "Total login attempts, by outcome.",
	}, []string{"outcome"})

	SignupTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notes",
		Name:      "signup_total",
		Help:      "Total registrations, by path (signup or createUser).",
	}, []string{"path"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "notes",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notes",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		OTPSentTotal,
		OTPVerifyTotal,
		OTPPurgedTotal,
		LoginTotal,
		SignupTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer exposes /metrics plus the liveness and readiness probes on a
// port separate from the API.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()), http.StatusOK)
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeHealth(w, result, status)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}
