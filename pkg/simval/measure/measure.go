package measure

import (
	"sync"
)

// DefaultMeasure keeps metrics in memory.
type DefaultMeasure struct {
	mu    sync.RWMutex
	Steps map[string]Metric
}

// NewDefaultMeasure creates an empty measure.
func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Steps: make(map[string]Metric),
	}
}

// AddMetric creates the metric of a node, replacing any previous one.
func (m *DefaultMeasure) AddMetric(name string) Metric {
	mt := newDefaultMetric()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Steps[name] = mt

	return mt
}

// GetMetric returns the metric of a node.
func (m *DefaultMeasure) GetMetric(name string) (Metric, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mt, ok := m.Steps[name]

	return mt, ok
}

// AllMetrics returns a copy of the metrics by node name.
func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Metric, len(m.Steps))
	for name, mt := range m.Steps {
		out[name] = mt
	}

	return out
}

var _ Measure = (*DefaultMeasure)(nil)
