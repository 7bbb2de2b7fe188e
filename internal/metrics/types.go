package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service is the Prometheus-backed Metrics implementation.
type Service struct {
	ScheduleRuns       prometheus.Counter
	ScheduleApplies    prometheus.Counter
	AssignmentDuration prometheus.Histogram
	SlotsGenerated     prometheus.Counter
	SlotsImported      prometheus.Counter
	ImportRowsSkipped  prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
