package measure

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMeasure is a DefaultMeasure that also exports every observed duration as a
// histogram labelled by plan node.
type PrometheusMeasure struct {
	*DefaultMeasure
	durations *prometheus.HistogramVec
}

// NewPrometheusMeasure registers the step duration histogram on reg.
func NewPrometheusMeasure(reg prometheus.Registerer, namespace string) (*PrometheusMeasure, error) {
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "step_duration_seconds",
		Help:      "Duration of simulator steps, interactions and validation runs.",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
	}, []string{"node"})

	err := reg.Register(durations)
	if err != nil {
		return nil, errors.Wrap(err, "unable to register step duration histogram")
	}

	return &PrometheusMeasure{
		DefaultMeasure: NewDefaultMeasure(),
		durations:      durations,
	}, nil
}

// AddMetric creates a metric whose durations are also observed by the histogram.
func (m *PrometheusMeasure) AddMetric(name string) Metric {
	mt := &prometheusMetric{
		Metric:   m.DefaultMeasure.AddMetric(name),
		observer: m.durations.WithLabelValues(name),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Steps[name] = mt

	return mt
}

// Collector returns the histogram backing the measure.
func (m *PrometheusMeasure) Collector() prometheus.Collector {
	return m.durations
}

type prometheusMetric struct {
	Metric
	observer prometheus.Observer
}

func (mt *prometheusMetric) AddDuration(elapsed time.Duration) {
	mt.Metric.AddDuration(elapsed)
	mt.observer.Observe(elapsed.Seconds())
}

var _ Measure = (*PrometheusMeasure)(nil)
