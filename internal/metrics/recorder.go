package metrics

import "time"

// ResultLabel enumerates task result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// Relocation kinds.
const (
	KindRoot       = "root"
	KindSubproject = "subproject"
)

// Recorder defines observability hooks for relocation and task metrics.
type Recorder interface {
	IncRelocation(kind string, success bool)
	SetProjects(n int)
	ObserveTaskDuration(task string, d time.Duration)
	IncTaskResult(task string, result ResultLabel)
	ObserveRemovedBytes(task string, n int64)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncRelocation(string, bool)                {}
func (NoopRecorder) SetProjects(int)                           {}
func (NoopRecorder) ObserveTaskDuration(string, time.Duration) {}
func (NoopRecorder) IncTaskResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveRemovedBytes(string, int64)         {}
