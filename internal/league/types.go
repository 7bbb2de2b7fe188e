package league

import (
	"database/sql"
	"sync"
	"time"

	"github.com/agsafastpitch/leagueops/internal/schedule"
)

// store handles all database operations for the league.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// SlotStatus is the lifecycle state of a slot.
type SlotStatus string

const (
	StatusOpen      SlotStatus = "Open"
	StatusConfirmed SlotStatus = "Confirmed"
	StatusCancelled SlotStatus = "Cancelled"
	StatusCompleted SlotStatus = "Completed"
	StatusPostponed SlotStatus = "Postponed"
)

// transitions maps each status to the statuses it may move to. Completed
// and Cancelled are terminal; Postponed may return to Confirmed.
var transitions = map[SlotStatus][]SlotStatus{
	StatusOpen:      {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusPostponed},
	StatusPostponed: {StatusConfirmed},
}

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s SlotStatus) bool {
	switch s {
	case StatusOpen, StatusConfirmed, StatusCancelled, StatusCompleted, StatusPostponed:
		return true
	}
	return false
}

// CanTransition reports whether a status change is legal.
func (s SlotStatus) CanTransition(to SlotStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Team is a division roster entry. Immutable for the duration of a run.
type Team struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Division string `json:"division"`
}

// Slot is a bookable field/date/time interval holding at most one game.
type Slot struct {
	ID               string     `json:"id"`
	Division         string     `json:"division"`
	FieldKey         string     `json:"field_key"`
	GameDate         string     `json:"game_date"` // YYYY-MM-DD
	StartMinute      int        `json:"start_minute"`
	EndMinute        int        `json:"end_minute"`
	HomeTeamID       string     `json:"home_team_id,omitempty"`
	AwayTeamID       string     `json:"away_team_id,omitempty"`
	OfferingTeamID   string     `json:"offering_team_id,omitempty"`
	ExternalOffer    bool       `json:"external_offer"`
	AvailabilityOnly bool       `json:"availability_only"`
	Status           SlotStatus `json:"status"`
	GameType         string     `json:"game_type,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        int64      `json:"created_at"`
}

// AvailabilityRule is a recurring day-of-week/time-window specification
// describing when a field is usable. An empty Division means league-wide.
type AvailabilityRule struct {
	ID          string         `json:"id"`
	FieldKey    string         `json:"field_key"`
	Division    string         `json:"division,omitempty"`
	DaysOfWeek  []time.Weekday `json:"days_of_week"`
	StartMinute int            `json:"start_minute"`
	EndMinute   int            `json:"end_minute"`
	StartsOn    string         `json:"starts_on,omitempty"` // YYYY-MM-DD, empty = unbounded
	EndsOn      string         `json:"ends_on,omitempty"`
	Active      bool           `json:"active"`
}

// AppliesOn reports whether the rule covers the given weekday.
func (r AvailabilityRule) AppliesOn(day time.Weekday) bool {
	for _, d := range r.DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

const (
	ScopeLeague   = "league"
	ScopeDivision = "division"
	ScopeField    = "field"
)

// BlackoutRange is an inclusive date range during which no slots may be
// generated. Scope is "league", "division" or "field"; ScopeKey names the
// division or field for the narrower scopes.
type BlackoutRange struct {
	ID        int64  `json:"id"`
	Scope     string `json:"scope"`
	ScopeKey  string `json:"scope_key,omitempty"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // inclusive
	Label     string `json:"label,omitempty"`
}

// Covers reports whether the blackout contains the date. ISO dates compare
// correctly as strings.
func (b BlackoutRange) Covers(date string) bool {
	return b.StartDate <= date && date <= b.EndDate
}

// ScheduleRun is the write-only audit record of one apply invocation.
type ScheduleRun struct {
	ID          string               `json:"id"`
	Division    string               `json:"division"`
	DateFrom    string               `json:"date_from"`
	DateTo      string               `json:"date_to"`
	Constraints schedule.Constraints `json:"constraints"`
	Summary     schedule.Summary     `json:"summary"`
	CreatedAt   int64                `json:"created_at"`
}
