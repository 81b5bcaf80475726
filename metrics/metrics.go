// Package metrics exposes Prometheus counters for participation decisions.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "participation"

// Submission outcomes.
const (
	OutcomeDecided      = "decided"
	OutcomeInvalid      = "invalid"
	OutcomeUploadFailed = "upload_failed"
	OutcomeWriteFailed  = "write_failed"
)

// Upstream services whose failures are downgraded to "no evidence".
const (
	UpstreamDetectFaces  = "detect_faces"
	UpstreamCompareFaces = "compare_faces"
	UpstreamExtractText  = "extract_text"
	UpstreamNotify       = "notify"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	submissions      *prometheus.CounterVec
	decisions        *prometheus.CounterVec
	evidence         *prometheus.CounterVec
	upstreamFailures *prometheus.CounterVec
	submitDuration   prometheus.Histogram
}

// New registers all collectors on reg. Pass prometheus.NewRegistry() in
// tests so that collectors do not clash across test cases.
func New(reg *prometheus.Registry) *Metrics {
	auto := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		submissions: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submissions handled, by outcome",
		}, []string{"outcome"}),
		decisions: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Committed participation decisions, by result",
		}, []string{"participation"}),
		evidence: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evidence_found_total",
			Help:      "Positive evidence signals, by source",
		}, []string{"source"}),
		upstreamFailures: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_failures_total",
			Help:      "Failed upstream calls that were downgraded to no evidence",
		}, []string{"call"}),
		submitDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submit_duration_seconds",
			Help:      "Time spent handling a submission",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) Submission(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
	m.submitDuration.Observe(took.Seconds())
}

func (m *Metrics) Decision(participation bool, face bool, name bool) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(strconv.FormatBool(participation)).Inc()
	if face {
		m.evidence.WithLabelValues("face").Inc()
	}
	if name {
		m.evidence.WithLabelValues("name").Inc()
	}
}

func (m *Metrics) UpstreamFailure(call string) {
	if m == nil {
		return
	}
	m.upstreamFailures.WithLabelValues(call).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
