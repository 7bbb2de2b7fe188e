package league

import "sync"

// MockStore is a hand-written mock of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	LoadTeamsFunc             func(division string) ([]Team, error)
	LoadOpenSlotsFunc         func(division, dateFrom, dateTo string) ([]Slot, error)
	LoadBookedSlotsFunc       func(division, dateFrom, dateTo string) ([]Slot, error)
	LoadAvailabilityRulesFunc func(fieldKey, division string) ([]AvailabilityRule, error)
	LoadBlackoutsFunc         func(division, fieldKey string) ([]BlackoutRange, error)
	SaveAssignmentFunc        func(slotID, homeTeamID, awayTeamID string, externalOffer bool) error
	CreateSlotsFunc           func(slots []Slot) (int, error)
	UpdateSlotStatusFunc      func(slotID string, status SlotStatus) error
	RecordRunFunc             func(run *ScheduleRun) error
	GetRunFunc                func(runID string) (*ScheduleRun, error)
	ListRunsFunc              func(division string) ([]*ScheduleRun, error)
	UpsertTeamsFunc           func(teams []Team) error
	UpsertRuleFunc            func(rule *AvailabilityRule) error
	AddBlackoutFunc           func(blackout *BlackoutRange) error

	// Call records
	SaveAssignmentCalls []struct {
		SlotID        string
		HomeTeamID    string
		AwayTeamID    string
		ExternalOffer bool
	}
	CreateSlotsCalls [][]Slot
	RecordRunCalls   []*ScheduleRun
	ClearCalls       int
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveAssignmentCalls = nil
	m.CreateSlotsCalls = nil
	m.RecordRunCalls = nil
	m.ClearCalls = 0
}

func (m *MockStore) LoadTeams(division string) ([]Team, error) {
	if m.LoadTeamsFunc != nil {
		return m.LoadTeamsFunc(division)
	}
	return nil, nil
}

func (m *MockStore) LoadOpenSlots(division, dateFrom, dateTo string) ([]Slot, error) {
	if m.LoadOpenSlotsFunc != nil {
		return m.LoadOpenSlotsFunc(division, dateFrom, dateTo)
	}
	return nil, nil
}

func (m *MockStore) LoadBookedSlots(division, dateFrom, dateTo string) ([]Slot, error) {
	if m.LoadBookedSlotsFunc != nil {
		return m.LoadBookedSlotsFunc(division, dateFrom, dateTo)
	}
	return nil, nil
}

func (m *MockStore) LoadAvailabilityRules(fieldKey, division string) ([]AvailabilityRule, error) {
	if m.LoadAvailabilityRulesFunc != nil {
		return m.LoadAvailabilityRulesFunc(fieldKey, division)
	}
	return nil, nil
}

func (m *MockStore) LoadBlackouts(division, fieldKey string) ([]BlackoutRange, error) {
	if m.LoadBlackoutsFunc != nil {
		return m.LoadBlackoutsFunc(division, fieldKey)
	}
	return nil, nil
}

func (m *MockStore) SaveAssignment(slotID, homeTeamID, awayTeamID string, externalOffer bool) error {
	m.mu.Lock()
	m.SaveAssignmentCalls = append(m.SaveAssignmentCalls, struct {
		SlotID        string
		HomeTeamID    string
		AwayTeamID    string
		ExternalOffer bool
	}{slotID, homeTeamID, awayTeamID, externalOffer})
	m.mu.Unlock()
	if m.SaveAssignmentFunc != nil {
		return m.SaveAssignmentFunc(slotID, homeTeamID, awayTeamID, externalOffer)
	}
	return nil
}

func (m *MockStore) CreateSlots(slots []Slot) (int, error) {
	m.mu.Lock()
	m.CreateSlotsCalls = append(m.CreateSlotsCalls, slots)
	m.mu.Unlock()
	if m.CreateSlotsFunc != nil {
		return m.CreateSlotsFunc(slots)
	}
	return len(slots), nil
}

func (m *MockStore) UpdateSlotStatus(slotID string, status SlotStatus) error {
	if m.UpdateSlotStatusFunc != nil {
		return m.UpdateSlotStatusFunc(slotID, status)
	}
	return nil
}

func (m *MockStore) RecordRun(run *ScheduleRun) error {
	m.mu.Lock()
	m.RecordRunCalls = append(m.RecordRunCalls, run)
	m.mu.Unlock()
	if m.RecordRunFunc != nil {
		return m.RecordRunFunc(run)
	}
	return nil
}

func (m *MockStore) GetRun(runID string) (*ScheduleRun, error) {
	if m.GetRunFunc != nil {
		return m.GetRunFunc(runID)
	}
	return nil, nil
}

func (m *MockStore) ListRuns(division string) ([]*ScheduleRun, error) {
	if m.ListRunsFunc != nil {
		return m.ListRunsFunc(division)
	}
	return nil, nil
}

func (m *MockStore) UpsertTeams(teams []Team) error {
	if m.UpsertTeamsFunc != nil {
		return m.UpsertTeamsFunc(teams)
	}
	return nil
}

func (m *MockStore) UpsertRule(rule *AvailabilityRule) error {
	if m.UpsertRuleFunc != nil {
		return m.UpsertRuleFunc(rule)
	}
	return nil
}

func (m *MockStore) AddBlackout(blackout *BlackoutRange) error {
	if m.AddBlackoutFunc != nil {
		return m.AddBlackoutFunc(blackout)
	}
	return nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	m.ClearCalls++
	m.mu.Unlock()
}
