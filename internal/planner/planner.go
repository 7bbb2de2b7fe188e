package planner

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/agsafastpitch/leagueops/internal/availability"
	"github.com/agsafastpitch/leagueops/internal/league"
	"github.com/agsafastpitch/leagueops/internal/metrics"
	"github.com/agsafastpitch/leagueops/internal/overlap"
	"github.com/agsafastpitch/leagueops/internal/schedule"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ErrTooFewTeams is returned when a division has fewer than two teams.
var ErrTooFewTeams = errors.New("division has fewer than two teams")

// ErrInvalidRequest marks request validation failures.
var ErrInvalidRequest = errors.New("invalid request")

// Planner orchestrates scheduling and slot generation against the store.
type Planner struct {
	store   league.Store
	metrics metrics.Metrics
}

// New creates a new Planner.
func New(store league.Store, metricsSvc metrics.Metrics) *Planner {
	return &Planner{
		store:   store,
		metrics: metricsSvc,
	}
}

// PreviewSchedule computes a full round-robin assignment for a division
// without writing anything.
func (p *Planner) PreviewSchedule(req ScheduleRequest) (*ScheduleResult, error) {
	if err := validateRange(req.DateFrom, req.DateTo); err != nil {
		return nil, err
	}

	teams, err := p.store.LoadTeams(req.Division)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	if len(teams) < 2 {
		return nil, fmt.Errorf("division %s: %w", req.Division, ErrTooFewTeams)
	}
	teamIDs := make([]string, len(teams))
	for i, t := range teams {
		teamIDs[i] = t.ID
	}

	openSlots, err := p.store.LoadOpenSlots(req.Division, req.DateFrom, req.DateTo)
	if err != nil {
		return nil, fmt.Errorf("failed to load open slots: %w", err)
	}
	slots := make([]schedule.Slot, len(openSlots))
	for i, s := range openSlots {
		slots[i] = schedule.Slot{
			ID:             s.ID,
			FieldKey:       s.FieldKey,
			GameDate:       s.GameDate,
			StartMinute:    s.StartMinute,
			EndMinute:      s.EndMinute,
			OfferingTeamID: s.OfferingTeamID,
		}
	}
	schedule.SortSlots(slots)

	matchups := schedule.RoundRobin(teamIDs)

	start := time.Now()
	result := schedule.Assign(slots, matchups, teamIDs, req.Constraints)
	p.metrics.ObserveAssignmentDuration(time.Since(start).Seconds())
	p.metrics.IncScheduleRuns()

	log.Info("Computed schedule preview",
		"division", req.Division,
		"teams", len(teamIDs),
		"slots", result.Summary.SlotsTotal,
		"assigned", result.Summary.SlotsAssigned,
		"unassignedMatchups", result.Summary.UnassignedMatchups,
	)

	return &ScheduleResult{
		Division: req.Division,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		Result:   result,
	}, nil
}

// ApplySchedule previews and then persists the assignments one write at a
// time. A failed write is counted and reported but does not block the rest
// of the batch; the recorded run reflects what was actually applied.
func (p *Planner) ApplySchedule(req ScheduleRequest) (*ApplyResult, error) {
	preview, err := p.PreviewSchedule(req)
	if err != nil {
		return nil, err
	}

	out := &ApplyResult{ScheduleResult: *preview}
	for _, a := range preview.Result.Assignments {
		if err := p.store.SaveAssignment(a.SlotID, a.HomeTeamID, a.AwayTeamID, a.ExternalOffer); err != nil {
			log.Error("Failed to apply assignment", "slotID", a.SlotID, "error", err)
			out.Failed++
			out.Errors = append(out.Errors, err.Error())
			continue
		}
		out.Applied++
	}

	run := &league.ScheduleRun{
		ID:          uuid.New().String(),
		Division:    req.Division,
		DateFrom:    req.DateFrom,
		DateTo:      req.DateTo,
		Constraints: req.Constraints,
		Summary:     preview.Result.Summary,
		CreatedAt:   time.Now().Unix(),
	}
	if err := p.store.RecordRun(run); err != nil {
		return out, fmt.Errorf("assignments applied but run not recorded: %w", err)
	}
	out.RunID = run.ID
	p.metrics.IncScheduleApplies()

	log.Info("Applied schedule", "runID", run.ID, "division", req.Division, "applied", out.Applied, "failed", out.Failed)
	return out, nil
}

// PreviewSlots expands availability into candidate slots and splits them
// into creatable candidates and conflicts against already-stored slots.
func (p *Planner) PreviewSlots(req SlotGenRequest) (*SlotGenResult, error) {
	if err := validateRange(req.DateFrom, req.DateTo); err != nil {
		return nil, err
	}
	if req.GameLengthMinutes <= 0 {
		return nil, fmt.Errorf("%w: game length must be positive, got %d", ErrInvalidRequest, req.GameLengthMinutes)
	}

	booked := overlap.New()
	existing, err := p.store.LoadBookedSlots(req.Division, req.DateFrom, req.DateTo)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked slots: %w", err)
	}
	for _, s := range existing {
		booked.Add(overlap.Key(s.FieldKey, s.GameDate), s.StartMinute, s.EndMinute)
	}

	candidates, err := p.expand(req)
	if err != nil {
		return nil, err
	}

	out := &SlotGenResult{Total: len(candidates)}
	for _, c := range candidates {
		if booked.HasOverlap(overlap.Key(c.FieldKey, c.GameDate), c.StartMinute, c.EndMinute) {
			out.Conflicts = append(out.Conflicts, c)
			continue
		}
		out.Candidates = append(out.Candidates, c)
	}
	return out, nil
}

// ApplySlots previews and then persists the non-conflicting candidates as
// new Open slots.
func (p *Planner) ApplySlots(req SlotGenRequest) (*SlotGenResult, error) {
	result, err := p.PreviewSlots(req)
	if err != nil {
		return nil, err
	}

	slots := make([]league.Slot, len(result.Candidates))
	now := time.Now().Unix()
	for i, c := range result.Candidates {
		slots[i] = league.Slot{
			ID:          uuid.New().String(),
			Division:    c.Division,
			FieldKey:    c.FieldKey,
			GameDate:    c.GameDate,
			StartMinute: c.StartMinute,
			EndMinute:   c.EndMinute,
			Status:      league.StatusOpen,
			CreatedAt:   now,
		}
	}

	created, err := p.store.CreateSlots(slots)
	if err != nil {
		return result, fmt.Errorf("failed to create slots: %w", err)
	}
	result.Created = created
	p.metrics.AddSlotsGenerated(created)

	log.Info("Created generated slots", "division", req.Division, "created", created, "conflicts", len(result.Conflicts))
	return result, nil
}

// expand dispatches the generation mode once and accumulates candidates
// per field so that field-scoped blackouts only suppress their own field.
func (p *Planner) expand(req SlotGenRequest) ([]availability.Candidate, error) {
	switch req.Mode {
	case ModeFixed:
		if len(req.FieldKeys) != 1 {
			return nil, fmt.Errorf("%w: fixed-window generation requires exactly one field key, got %d", ErrInvalidRequest, len(req.FieldKeys))
		}
		blackouts, err := p.store.LoadBlackouts(req.Division, req.FieldKeys[0])
		if err != nil {
			return nil, fmt.Errorf("failed to load blackouts: %w", err)
		}
		spec := availability.FixedWindowSpec{
			FieldKey:    req.FieldKeys[0],
			DaysOfWeek:  req.DaysOfWeek,
			StartMinute: req.StartMinute,
			EndMinute:   req.EndMinute,
		}
		return availability.Expand(spec, req.Division, req.DateFrom, req.DateTo, req.GameLengthMinutes, blackouts)

	case ModeRules:
		var rules []league.AvailabilityRule
		if len(req.FieldKeys) == 0 {
			// An empty list means every field with applicable rules.
			all, err := p.store.LoadAvailabilityRules("", req.Division)
			if err != nil {
				return nil, fmt.Errorf("failed to load availability rules: %w", err)
			}
			rules = all
		} else {
			for _, fk := range req.FieldKeys {
				rs, err := p.store.LoadAvailabilityRules(fk, req.Division)
				if err != nil {
					return nil, fmt.Errorf("failed to load availability rules: %w", err)
				}
				if len(rs) == 0 {
					log.Warn("No active availability rules for field", "fieldKey", fk, "division", req.Division)
				}
				rules = append(rules, rs...)
			}
		}

		// Blackouts are scoped per field, so rules expand field by field:
		// a field-scoped blackout must suppress exactly its own field even
		// when the rules were loaded for every field at once.
		byField := make(map[string][]league.AvailabilityRule)
		var fieldOrder []string
		for _, r := range rules {
			if _, ok := byField[r.FieldKey]; !ok {
				fieldOrder = append(fieldOrder, r.FieldKey)
			}
			byField[r.FieldKey] = append(byField[r.FieldKey], r)
		}
		sort.Strings(fieldOrder)

		var all []availability.Candidate
		for _, fk := range fieldOrder {
			blackouts, err := p.store.LoadBlackouts(req.Division, fk)
			if err != nil {
				return nil, fmt.Errorf("failed to load blackouts: %w", err)
			}
			candidates, err := availability.Expand(availability.RuleSetSpec{Rules: byField[fk]}, req.Division, req.DateFrom, req.DateTo, req.GameLengthMinutes, blackouts)
			if err != nil {
				return nil, err
			}
			all = append(all, candidates...)
		}
		return all, nil

	default:
		return nil, fmt.Errorf("%w: unknown generation mode %q", ErrInvalidRequest, req.Mode)
	}
}

func validateRange(from, to string) error {
	fromDay, err := league.ParseDate(from)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	toDay, err := league.ParseDate(to)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if toDay.Before(fromDay) {
		return fmt.Errorf("%w: date range end %s is before start %s", ErrInvalidRequest, to, from)
	}
	return nil
}
