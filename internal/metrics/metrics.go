// Package metrics — Prometheus-инструментация boss: счётчики HTTP
// запросов и исходов запусков, gauge активного запуска и гистограмма
// длительности задач. Экспортируются через promhttp.Handler на
// /metrics (см. cmd/boss).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder группирует все метрики, которые эмитит boss. Один Recorder
// собирается при старте и разделяется HTTP-middleware и run driver'ом.
type Recorder struct {
	HTTPRequestsTotal *prometheus.CounterVec
	RunsTotal         *prometheus.CounterVec
	ActiveRun         prometheus.Gauge
	TaskDuration      *prometheus.HistogramVec
}

// New регистрирует метрики boss в reg и возвращает Recorder. В
// продакшене передаётся prometheus.DefaultRegisterer; тесты передают
// свежий prometheus.NewRegistry(), чтобы повторные вызовы New в одном
// процессе не падали на дублирующей регистрации.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "boss_http_requests_total",
			Help: "Total HTTP requests handled by boss, by path/method/status.",
		}, []string{"path", "method", "status"}),
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "boss_runs_total",
			Help: "Total runs completed, by result.",
		}, []string{"result"}),
		ActiveRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "boss_active_run",
			Help: "1 while a run is active, 0 otherwise.",
		}),
		TaskDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "boss_task_duration_seconds",
			Help:    "Task execution duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage", "task", "passed"}),
	}
}

// ObserveTask записывает длительность одной задачи с метками стадии,
// имени задачи и вердикта.
func (r *Recorder) ObserveTask(stage, task string, passed bool, d time.Duration) {
	r.TaskDuration.WithLabelValues(stage, task, boolLabel(passed)).Observe(d.Seconds())
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
