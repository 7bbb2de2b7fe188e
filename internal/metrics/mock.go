package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a no-op Metrics implementation that records calls for tests.
type Mock struct {
	mu sync.Mutex

	ScheduleRunsCalls       int
	ScheduleAppliesCalls    int
	AssignmentDurations     []float64
	SlotsGeneratedTotal     int
	SlotsImportedTotal      int
	ImportRowsSkippedTotal  int
	StartupTimeObservations []float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncScheduleRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScheduleRunsCalls++
}

func (m *Mock) IncScheduleApplies() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScheduleAppliesCalls++
}

func (m *Mock) ObserveAssignmentDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AssignmentDurations = append(m.AssignmentDurations, seconds)
}

func (m *Mock) AddSlotsGenerated(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlotsGeneratedTotal += count
}

func (m *Mock) AddSlotsImported(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlotsImportedTotal += count
}

func (m *Mock) AddImportRowsSkipped(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImportRowsSkippedTotal += count
}

func (m *Mock) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTimeObservations = append(m.StartupTimeObservations, seconds)
}
