// Package metrics exposes Prometheus metrics for the HTTP surface and the
// credential primitives. Each Registry owns its own prometheus.Registry, so
// tests and multiple app instances never collide on global state.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clouddb"

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	PasswordHashes   *prometheus.CounterVec
	HashDuration     prometheus.Histogram
	TokensIssued     *prometheus.CounterVec
	TokenValidations *prometheus.CounterVec
}

// NewRegistry creates and registers every metric, plus the Go runtime and
// process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		PasswordHashes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "password_operations_total",
			Help:      "Password hash/verify operations by result.",
		}, []string{"op", "result"}),

		HashDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "password_hash_duration_seconds",
			Help:      "Time spent in bcrypt, including the wait for a hashing slot.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		}),

		TokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Signed tokens issued by result.",
		}, []string{"result"}),

		TokenValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_validations_total",
			Help:      "Token verifications by outcome (ok, expired, malformed, ...).",
		}, []string{"outcome"}),
	}

	r.reg.MustRegister(
		r.RequestsTotal,
		r.RequestDuration,
		r.PasswordHashes,
		r.HashDuration,
		r.TokensIssued,
		r.TokenValidations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// ObserveRequest records one served HTTP request.
func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObservePassword records a hash or verify call.
func (r *Registry) ObservePassword(op string, err error, elapsed time.Duration) {
	r.PasswordHashes.WithLabelValues(op, result(err)).Inc()
	if op == "hash" {
		r.HashDuration.Observe(elapsed.Seconds())
	}
}

// ObserveIssue records a token issuance.
func (r *Registry) ObserveIssue(err error) {
	r.TokensIssued.WithLabelValues(result(err)).Inc()
}

// ObserveValidation records a verification outcome label.
func (r *Registry) ObserveValidation(outcome string) {
	r.TokenValidations.WithLabelValues(outcome).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
