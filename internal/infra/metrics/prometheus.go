package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "manimatic_jobs_total",
		Help: "Total number of generation jobs, by terminal status",
	}, []string{"status"})

	JobFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "manimatic_job_failures_total",
		Help: "Total number of failed jobs, by failure kind",
	}, []string{"kind"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "manimatic_stage_duration_seconds",
		Help:    "Duration of each generation pipeline stage",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"stage"})

	ActiveJobs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "manimatic_active_jobs",
		Help: "Number of generation jobs currently in flight",
	})
)
