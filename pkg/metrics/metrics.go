package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "survey", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "survey", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	RecordsSaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "survey", Name: "records_saved_total", Help: "Number of records written by collection."},
		[]string{"collection"},
	)
	RecordErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "survey", Name: "record_errors_total", Help: "Number of failed record operations by operation and error kind."},
		[]string{"op", "kind"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(RecordsSaved)
	reg.MustRegister(RecordErrors)
}
