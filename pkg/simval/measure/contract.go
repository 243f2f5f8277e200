package measure

import "time"

// Measure holds one Metric per plan node.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) (Metric, bool)
	AllMetrics() map[string]Metric
}

// Metric accumulates the durations observed for one plan node.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AddInputDuration(inputNode string, elapsed time.Duration)
	AVGDuration() time.Duration
	AVGInputDurations() map[string]time.Duration
	Count() int64
	TotalDuration() time.Duration
}
