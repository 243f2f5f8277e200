package measure

import (
	"sync"
	"time"
)

type inputInfo struct {
	elapsed time.Duration
	total   int64
}

// DefaultMetric is a Metric safe for concurrent use.
type DefaultMetric struct {
	mu          sync.Mutex
	inputs      map[string]*inputInfo
	stepElapsed time.Duration
	total       int64
}

func newDefaultMetric() *DefaultMetric {
	return &DefaultMetric{
		inputs: make(map[string]*inputInfo),
	}
}

func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total++
	mt.stepElapsed += elapsed
}

func (mt *DefaultMetric) AddInputDuration(inputNode string, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.inputs[inputNode] == nil {
		mt.inputs[inputNode] = &inputInfo{}
	}
	in := mt.inputs[inputNode]
	in.elapsed += elapsed
	in.total++
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.total == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.stepElapsed) / float64(mt.total)))
}

func (mt *DefaultMetric) AVGInputDurations() map[string]time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	out := make(map[string]time.Duration, len(mt.inputs))
	for name, in := range mt.inputs {
		if in.total == 0 {
			continue
		}
		out[name] = round(time.Duration(float64(in.elapsed) / float64(in.total)))
	}

	return out
}

func (mt *DefaultMetric) Count() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.total
}

func (mt *DefaultMetric) TotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.stepElapsed
}

var _ Metric = (*DefaultMetric)(nil)

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Millisecond)
	case d > time.Millisecond:
		d = d.Round(time.Microsecond)
	case d > time.Microsecond:
		d = d.Round(100 * time.Nanosecond)
	}

	return d
}
