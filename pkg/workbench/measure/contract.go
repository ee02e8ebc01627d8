package measure

import "time"

// Measure stores the metrics of serialized requests.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric aggregates the durations of the requests sharing a name.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AddWaitDuration(elapsed time.Duration)
	AddFailure()
	AVGDuration() time.Duration
	AVGWaitDuration() time.Duration
	Total() int64
	Failures() int64
}
