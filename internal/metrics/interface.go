package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncScheduleRuns()
	IncScheduleApplies()
	ObserveAssignmentDuration(seconds float64)
	AddSlotsGenerated(count int)
	AddSlotsImported(count int)
	AddImportRowsSkipped(count int)
	SetStartupTime(seconds float64)
}
