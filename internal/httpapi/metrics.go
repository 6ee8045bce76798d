package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Kostroma329/Calendar-bot/extract"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventparse",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests handled, by route and status code.",
	}, []string{"route", "code"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "eventparse",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"route"})

	extractionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventparse",
		Subsystem: "extract",
		Name:      "messages_total",
		Help:      "Messages processed, by how many fields were found.",
	}, []string{"outcome"})

	fieldsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventparse",
		Subsystem: "extract",
		Name:      "fields_total",
		Help:      "Facts extracted, by field. Each dance counts once.",
	}, []string{"field"})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, extractionsTotal, fieldsTotal)
}

// Outcome label values.
const (
	outcomeEmpty    = "empty"
	outcomePartial  = "partial"
	outcomeComplete = "complete"
)

// Field label values.
const (
	fieldTime     = "time"
	fieldLocation = "location"
	fieldActivity = "activity"
)

// recordExtraction updates the extraction counters for one result.
func recordExtraction(r extract.Result) {
	found := 0
	if r.HasTime() {
		fieldsTotal.WithLabelValues(fieldTime).Inc()
		found++
	}
	if r.Location != "" {
		fieldsTotal.WithLabelValues(fieldLocation).Inc()
		found++
	}
	if n := len(r.Activities); n > 0 {
		fieldsTotal.WithLabelValues(fieldActivity).Add(float64(n))
		found++
	}

	switch found {
	case 0:
		extractionsTotal.WithLabelValues(outcomeEmpty).Inc()
	case 3:
		extractionsTotal.WithLabelValues(outcomeComplete).Inc()
	default:
		extractionsTotal.WithLabelValues(outcomePartial).Inc()
	}
}
