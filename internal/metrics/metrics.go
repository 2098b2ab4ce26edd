// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records Prometheus counters for the recommendation engine
// and the external suggester. Metrics live on a private registry so several
// engines (and tests) never collide on the default one.
//
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "promptrec"

// Recorder owns the engine's metric vectors.
type Recorder struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	candidates   *prometheus.CounterVec
	failures     *prometheus.CounterVec
	breakerState *prometheus.GaugeVec
	duration     prometheus.Histogram
}

// New creates a Recorder with all metrics registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommend_requests_total",
			Help:      "Recommendation requests by cache outcome.",
		}, []string{"cache"}),
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_total",
			Help:      "Candidates produced before dedup, by source.",
		}, []string{"source"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggester_failures_total",
			Help:      "External suggester calls that degraded to an empty list, by reason.",
		}, []string{"reason"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "suggester_breaker_state",
			Help:      "Circuit breaker state: 0=closed, 1=half-open, 2=open.",
		}, []string{"name"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommend_duration_seconds",
			Help:      "End-to-end recommendation latency.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		}),
	}
	r.registry.MustRegister(r.requests, r.candidates, r.failures, r.breakerState, r.duration)
	return r
}

// Registry exposes the underlying registry for scraping or tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveRequest records one recommendation request.
func (r *Recorder) ObserveRequest(cacheHit bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	outcome := "miss"
	if cacheHit {
		outcome = "hit"
	}
	r.requests.WithLabelValues(outcome).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// AddCandidates counts n candidates from source.
func (r *Recorder) AddCandidates(source string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.candidates.WithLabelValues(source).Add(float64(n))
}

// SuggesterFailure counts a degraded suggester call.
func (r *Recorder) SuggesterFailure(reason string) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(reason).Inc()
}

// BreakerState sets the circuit breaker gauge for name.
func (r *Recorder) BreakerState(name string, state float64) {
	if r == nil {
		return
	}
	r.breakerState.WithLabelValues(name).Set(state)
}

// Sample is one gathered metric value.
type Sample struct {
	Name  string
	Value float64
}

// Snapshot gathers counters and gauges as sorted name{labels} samples.
// Histograms report their observation count.
func (r *Recorder) Snapshot() ([]Sample, error) {
	if r == nil {
		return nil, nil
	}
	families, err := r.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gathering metrics: %w", err)
	}

	var samples []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName() + formatLabels(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				samples = append(samples, Sample{Name: name, Value: m.GetCounter().GetValue()})
			case dto.MetricType_GAUGE:
				samples = append(samples, Sample{Name: name, Value: m.GetGauge().GetValue()})
			case dto.MetricType_HISTOGRAM:
				samples = append(samples, Sample{Name: name + "_count", Value: float64(m.GetHistogram().GetSampleCount())})
			}
		}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].Name < samples[j].Name })
	return samples, nil
}

func formatLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
	}
	return "{" + strings.Join(parts, ",") + "}"
}
