package availability

import (
	"fmt"
	"time"

	"github.com/agsafastpitch/leagueops/internal/league"
	"github.com/agsafastpitch/leagueops/internal/overlap"
	"github.com/charmbracelet/log"
)

// Candidate is one generated bookable chunk, not yet persisted.
type Candidate struct {
	GameDate    string `json:"game_date"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
	FieldKey    string `json:"field_key"`
	Division    string `json:"division"`
}

// Spec selects the expansion source: either a set of stored availability
// rules or a single explicit days/time window.
type Spec interface {
	rules(division string) []league.AvailabilityRule
}

// RuleSetSpec expands stored availability rules.
type RuleSetSpec struct {
	Rules []league.AvailabilityRule
}

func (s RuleSetSpec) rules(string) []league.AvailabilityRule {
	return s.Rules
}

// FixedWindowSpec expands a single explicit days-of-week/time window for
// one field, standing in for stored rules.
type FixedWindowSpec struct {
	FieldKey    string
	DaysOfWeek  []time.Weekday
	StartMinute int
	EndMinute   int
}

func (s FixedWindowSpec) rules(division string) []league.AvailabilityRule {
	return []league.AvailabilityRule{{
		FieldKey:    s.FieldKey,
		Division:    division,
		DaysOfWeek:  s.DaysOfWeek,
		StartMinute: s.StartMinute,
		EndMinute:   s.EndMinute,
		Active:      true,
	}}
}

// Expand generates deduplicated game-length candidates for a division over
// the inclusive [from, to] date range, skipping blackout dates. The spec is
// dispatched once here; everything below works on rules only.
func Expand(spec Spec, division, from, to string, gameLengthMinutes int, blackouts []league.BlackoutRange) ([]Candidate, error) {
	fromDay, err := league.ParseDate(from)
	if err != nil {
		return nil, err
	}
	toDay, err := league.ParseDate(to)
	if err != nil {
		return nil, err
	}
	if toDay.Before(fromDay) {
		return nil, fmt.Errorf("date range end %s is before start %s", to, from)
	}
	if gameLengthMinutes <= 0 {
		return nil, fmt.Errorf("game length must be positive, got %d", gameLengthMinutes)
	}

	seen := overlap.New()
	var candidates []Candidate

	for _, rule := range spec.rules(division) {
		if !rule.Active {
			continue
		}
		if rule.StartMinute >= rule.EndMinute {
			return nil, fmt.Errorf("rule %s has invalid time window %d-%d", rule.ID, rule.StartMinute, rule.EndMinute)
		}

		start, end, ok, err := clampValidity(rule, fromDay, toDay)
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Debug("Rule validity window does not intersect requested range", "ruleID", rule.ID)
			continue
		}

		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			if !rule.AppliesOn(day.Weekday()) {
				continue
			}
			date := league.FormatDate(day)
			if coveredByBlackout(date, blackouts) {
				continue
			}
			for st := rule.StartMinute; st+gameLengthMinutes <= rule.EndMinute; st += gameLengthMinutes {
				en := st + gameLengthMinutes
				// First occurrence wins; later duplicates are discarded.
				if !seen.AddUnique(overlap.Key(rule.FieldKey, date), st, en) {
					continue
				}
				candidates = append(candidates, Candidate{
					GameDate:    date,
					StartMinute: st,
					EndMinute:   en,
					FieldKey:    rule.FieldKey,
					Division:    division,
				})
			}
		}
	}
	return candidates, nil
}

// clampValidity intersects the rule's optional startsOn/endsOn window with
// the requested range. ok is false when the intersection is empty.
func clampValidity(rule league.AvailabilityRule, from, to time.Time) (time.Time, time.Time, bool, error) {
	start, end := from, to
	if rule.StartsOn != "" {
		s, err := league.ParseDate(rule.StartsOn)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("rule %s: %w", rule.ID, err)
		}
		if s.After(start) {
			start = s
		}
	}
	if rule.EndsOn != "" {
		e, err := league.ParseDate(rule.EndsOn)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("rule %s: %w", rule.ID, err)
		}
		if e.Before(end) {
			end = e
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, false, nil
	}
	return start, end, true, nil
}

func coveredByBlackout(date string, blackouts []league.BlackoutRange) bool {
	for _, b := range blackouts {
		if b.Covers(date) {
			return true
		}
	}
	return false
}
