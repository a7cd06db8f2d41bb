package batch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transformTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planbot_batch_transform_total",
		Help: "Batch transforms by action and result",
	}, []string{"action", "result"})

	transformDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planbot_batch_transform_duration_seconds",
		Help:    "Batch transform duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	}, []string{"action"})

	commitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planbot_batch_commit_total",
		Help: "Committed batch sessions by action and outcome",
	}, []string{"action", "outcome"})

	alertTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planbot_batch_alert_total",
		Help: "Safety alerts shown at commit time by kind",
	}, []string{"kind"})
)

func observeTransform(kind ActionKind, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	transformTotal.WithLabelValues(string(kind), result).Inc()
	transformDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
}

func observeCommit(r *Result) {
	commitTotal.WithLabelValues(string(r.Action.Kind()), string(r.Outcome)).Inc()
	for _, a := range r.Preview.Alerts {
		alertTotal.WithLabelValues(string(a.Kind)).Inc()
	}
}
