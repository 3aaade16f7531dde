package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "buildreloc"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once         sync.Once
	relocations  *prom.CounterVec
	projects     prom.Gauge
	taskDuration *prom.HistogramVec
	taskResults  *prom.CounterVec
	removedBytes *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.relocations = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "relocations_total",
			Help:      "Output directory relocations by project kind and result",
		}, []string{"kind", "result"})
		pr.projects = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "projects",
			Help:      "Projects in the last relocated layout (root included)",
		})
		pr.taskDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Duration of registered task executions",
			Buckets:   prom.DefBuckets,
		}, []string{"task"})
		pr.taskResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "task_results_total",
			Help:      "Task executions by outcome",
		}, []string{"task", "result"})
		pr.removedBytes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "removed_bytes_total",
			Help:      "Bytes of build output removed by cleanup tasks",
		}, []string{"task"})
		reg.MustRegister(pr.relocations, pr.projects, pr.taskDuration, pr.taskResults, pr.removedBytes)
	})
	return pr
}

func (p *PrometheusRecorder) IncRelocation(kind string, success bool) {
	if p == nil || p.relocations == nil {
		return
	}
	res := ResultFailed
	if success {
		res = ResultSuccess
	}
	p.relocations.WithLabelValues(kind, string(res)).Inc()
}

func (p *PrometheusRecorder) SetProjects(n int) {
	if p == nil || p.projects == nil {
		return
	}
	p.projects.Set(float64(n))
}

func (p *PrometheusRecorder) ObserveTaskDuration(task string, d time.Duration) {
	if p == nil || p.taskDuration == nil {
		return
	}
	p.taskDuration.WithLabelValues(task).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncTaskResult(task string, result ResultLabel) {
	if p == nil || p.taskResults == nil {
		return
	}
	p.taskResults.WithLabelValues(task, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRemovedBytes(task string, n int64) {
	if p == nil || p.removedBytes == nil || n <= 0 {
		return
	}
	p.removedBytes.WithLabelValues(task).Add(float64(n))
}
