// Package prometheus provides Prometheus instrumentation for kavach services.
package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/kavach"
	"github.com/prometheus/client_golang/prometheus"
)

// OutcomeOK labels successful analysis calls. Failed calls are labelled
// with their kavach error code.
const OutcomeOK = "ok"

// Ensure Analyzer implements kavach.Analyzer.
var _ kavach.Analyzer = (*Analyzer)(nil)

// Analyzer wraps an Analyzer with request counters and latency histograms.
type Analyzer struct {
	next     kavach.Analyzer
	requests *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewAnalyzer creates an Analyzer and registers its collectors with reg.
func NewAnalyzer(next kavach.Analyzer, reg prometheus.Registerer) (*Analyzer, error) {
	a := &Analyzer{
		next: next,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kavach",
			Name:      "analyze_requests_total",
			Help:      "Analysis requests sent to the backend, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kavach",
			Name:      "analyze_duration_seconds",
			Help:      "Time spent waiting for the analysis backend.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}),
	}

	for _, c := range []prometheus.Collector{a.requests, a.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Analyze delegates to the wrapped analyzer and records the outcome.
func (a *Analyzer) Analyze(ctx context.Context, req *kavach.AnalysisRequest) (*kavach.AnalysisResponse, error) {
	begin := time.Now()
	resp, err := a.next.Analyze(ctx, req)
	a.duration.Observe(time.Since(begin).Seconds())

	outcome := OutcomeOK
	if err != nil {
		outcome = kavach.ErrorCode(err)
	}
	a.requests.WithLabelValues(outcome).Inc()

	return resp, err
}
