package league

// Store defines the repository collaborators the scheduling engine consumes.
// Load methods return read-only snapshots; write methods are the apply-phase
// collaborators.
type Store interface {
	LoadTeams(division string) ([]Team, error)
	LoadOpenSlots(division, dateFrom, dateTo string) ([]Slot, error)
	LoadBookedSlots(division, dateFrom, dateTo string) ([]Slot, error)
	LoadAvailabilityRules(fieldKey, division string) ([]AvailabilityRule, error)
	LoadBlackouts(division, fieldKey string) ([]BlackoutRange, error)

	SaveAssignment(slotID, homeTeamID, awayTeamID string, externalOffer bool) error
	CreateSlots(slots []Slot) (int, error)
	UpdateSlotStatus(slotID string, status SlotStatus) error

	RecordRun(run *ScheduleRun) error
	GetRun(runID string) (*ScheduleRun, error)
	ListRuns(division string) ([]*ScheduleRun, error)

	UpsertTeams(teams []Team) error
	UpsertRule(rule *AvailabilityRule) error
	AddBlackout(blackout *BlackoutRange) error
	Clear()
}
