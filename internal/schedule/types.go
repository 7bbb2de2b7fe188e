package schedule

// Matchup is an ordered (home, away) pairing awaiting a slot.
type Matchup struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// Slot is the subset of slot data the assigner needs. The planner maps
// persisted slots into this shape so the engine stays free of storage
// concerns.
type Slot struct {
	ID             string `json:"id"`
	FieldKey       string `json:"field_key"`
	GameDate       string `json:"game_date"` // YYYY-MM-DD
	StartMinute    int    `json:"start_minute"`
	EndMinute      int    `json:"end_minute"`
	OfferingTeamID string `json:"offering_team_id,omitempty"`
}

// Assignment pairs a slot with the matchup placed into it.
type Assignment struct {
	SlotID        string `json:"slot_id"`
	HomeTeamID    string `json:"home_team_id"`
	AwayTeamID    string `json:"away_team_id,omitempty"`
	ExternalOffer bool   `json:"external_offer"`
}

// Constraints control the assigner. MaxGamesPerWeek of zero means no weekly
// cap; ExternalOfferPerWeek of zero disables the fallback.
type Constraints struct {
	MaxGamesPerWeek      int  `json:"max_games_per_week"`
	NoDoubleHeaders      bool `json:"no_double_headers"`
	BalanceHomeAway      bool `json:"balance_home_away"`
	ExternalOfferPerWeek int  `json:"external_offer_per_week"`
}

// Summary holds the totals for one assignment run.
type Summary struct {
	SlotsTotal         int `json:"slots_total"`
	SlotsAssigned      int `json:"slots_assigned"`
	MatchupsTotal      int `json:"matchups_total"`
	MatchupsAssigned   int `json:"matchups_assigned"`
	ExternalOffers     int `json:"external_offers"`
	UnassignedSlots    int `json:"unassigned_slots"`
	UnassignedMatchups int `json:"unassigned_matchups"`
}

// Result is the full output of an assignment run.
type Result struct {
	Assignments        []Assignment `json:"assignments"`
	UnassignedSlots    []Slot       `json:"unassigned_slots"`
	UnassignedMatchups []Matchup    `json:"unassigned_matchups"`
	Summary            Summary      `json:"summary"`
}
