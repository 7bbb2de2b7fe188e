package planner

import (
	"time"

	"github.com/agsafastpitch/leagueops/internal/availability"
	"github.com/agsafastpitch/leagueops/internal/schedule"
)

// ScheduleRequest are the parameters for a schedule preview or apply.
type ScheduleRequest struct {
	Division    string
	DateFrom    string
	DateTo      string
	Constraints schedule.Constraints
}

// ScheduleResult is the outcome of a preview: the full engine result plus
// the run parameters it was computed for. Previews are side-effect free.
type ScheduleResult struct {
	Division string          `json:"division"`
	DateFrom string          `json:"date_from"`
	DateTo   string          `json:"date_to"`
	Result   schedule.Result `json:"result"`
}

// ApplyResult extends a preview with the persisted outcome. Failed writes
// are counted and reported; they never abort the rest of the batch.
type ApplyResult struct {
	ScheduleResult
	RunID   string   `json:"run_id"`
	Applied int      `json:"applied"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// SlotGenRequest are the parameters for slot generation. Mode selects the
// expansion source: ModeRules expands stored availability rules for the
// field keys (all fields when empty); ModeFixed expands the explicit
// days/time window for a single field.
type SlotGenRequest struct {
	Division          string
	FieldKeys         []string
	DateFrom          string
	DateTo            string
	GameLengthMinutes int

	Mode        GenMode
	DaysOfWeek  []time.Weekday // ModeFixed only
	StartMinute int            // ModeFixed only
	EndMinute   int            // ModeFixed only
}

type GenMode string

const (
	ModeRules GenMode = "rules"
	ModeFixed GenMode = "fixed"
)

// SlotGenResult is the outcome of a slot-generation preview or apply.
// Conflicts are candidates overlapping an already-stored slot.
type SlotGenResult struct {
	Candidates []availability.Candidate `json:"candidates"`
	Conflicts  []availability.Candidate `json:"conflicts"`
	Created    int                      `json:"created"`
	Total      int                      `json:"total"`
}
