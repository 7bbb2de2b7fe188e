package availability_test

import (
	"testing"
	"time"

	"github.com/agsafastpitch/leagueops/internal/availability"
	"github.com/agsafastpitch/leagueops/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondayRule(id, field string, startMinute, endMinute int) league.AvailabilityRule {
	return league.AvailabilityRule{
		ID:          id,
		FieldKey:    field,
		DaysOfWeek:  []time.Weekday{time.Monday},
		StartMinute: startMinute,
		EndMinute:   endMinute,
		Active:      true,
	}
}

func TestExpandSlicesWindowIntoGameLengths(t *testing.T) {
	// A Monday 09:00-13:00 window with 90 minute games yields two chunks;
	// the trailing 60 minutes are dropped.
	rule := mondayRule("r1", "field-a", 540, 780)

	candidates, err := availability.Expand(
		availability.RuleSetSpec{Rules: []league.AvailabilityRule{rule}},
		"10U", "2024-06-03", "2024-06-03", 90, nil,
	)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, 540, candidates[0].StartMinute)
	assert.Equal(t, 630, candidates[0].EndMinute)
	assert.Equal(t, 630, candidates[1].StartMinute)
	assert.Equal(t, 720, candidates[1].EndMinute)
	for _, c := range candidates {
		assert.Equal(t, 90, c.EndMinute-c.StartMinute)
		assert.Equal(t, "field-a", c.FieldKey)
		assert.Equal(t, "10U", c.Division)
		assert.Equal(t, "2024-06-03", c.GameDate)
	}
}

func TestExpandFiltersWeekdays(t *testing.T) {
	rule := mondayRule("r1", "field-a", 540, 630)

	// Jun 3 2024 is a Monday; the range covers two full weeks.
	candidates, err := availability.Expand(
		availability.RuleSetSpec{Rules: []league.AvailabilityRule{rule}},
		"10U", "2024-06-03", "2024-06-16", 90, nil,
	)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "2024-06-03", candidates[0].GameDate)
	assert.Equal(t, "2024-06-10", candidates[1].GameDate)
}

func TestExpandSkipsBlackoutDates(t *testing.T) {
	rule := league.AvailabilityRule{
		ID:          "r1",
		FieldKey:    "field-a",
		DaysOfWeek:  []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		StartMinute: 540,
		EndMinute:   630,
		Active:      true,
	}
	blackouts := []league.BlackoutRange{
		{Scope: "field", ScopeKey: "field-a", StartDate: "2024-06-10", EndDate: "2024-06-14", Label: "maintenance"},
	}

	// Jun 3..Jun 21: three weeks of weekdays, the middle week blacked out.
	candidates, err := availability.Expand(
		availability.RuleSetSpec{Rules: []league.AvailabilityRule{rule}},
		"10U", "2024-06-03", "2024-06-21", 90, blackouts,
	)
	require.NoError(t, err)
	require.Len(t, candidates, 10)
	for _, c := range candidates {
		assert.NotContains(t, []string{"2024-06-10", "2024-06-11", "2024-06-12", "2024-06-13", "2024-06-14"}, c.GameDate)
	}
}

func TestExpandIntersectsValidityWindow(t *testing.T) {
	rule := mondayRule("r1", "field-a", 540, 630)
	rule.StartsOn = "2024-06-10"
	rule.EndsOn = "2024-06-10"

	candidates, err := availability.Expand(
		availability.RuleSetSpec{Rules: []league.AvailabilityRule{rule}},
		"10U", "2024-06-03", "2024-06-30", 90, nil,
	)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "2024-06-10", candidates[0].GameDate)
}

func TestExpandSkipsRuleWithEmptyValidityIntersection(t *testing.T) {
	rule := mondayRule("r1", "field-a", 540, 630)
	rule.EndsOn = "2024-05-01"

	candidates, err := availability.Expand(
		availability.RuleSetSpec{Rules: []league.AvailabilityRule{rule}},
		"10U", "2024-06-03", "2024-06-30", 90, nil,
	)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestExpandDeduplicatesOverlappingRules(t *testing.T) {
	// Two rules covering the same Monday window on the same field produce
	// each chunk once, first occurrence winning.
	rules := []league.AvailabilityRule{
		mondayRule("r1", "field-a", 540, 720),
		mondayRule("r2", "field-a", 540, 720),
	}

	first, err := availability.Expand(
		availability.RuleSetSpec{Rules: rules},
		"10U", "2024-06-03", "2024-06-03", 90, nil,
	)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	// Expansion is deterministic: repeating the call yields the same list.
	second, err := availability.Expand(
		availability.RuleSetSpec{Rules: rules},
		"10U", "2024-06-03", "2024-06-03", 90, nil,
	)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExpandFixedWindowSpec(t *testing.T) {
	spec := availability.FixedWindowSpec{
		FieldKey:    "field-b",
		DaysOfWeek:  []time.Weekday{time.Saturday, time.Sunday},
		StartMinute: 480,
		EndMinute:   660,
	}

	candidates, err := availability.Expand(spec, "12U", "2024-06-01", "2024-06-02", 90, nil)
	require.NoError(t, err)
	require.Len(t, candidates, 4)
	assert.Equal(t, "2024-06-01", candidates[0].GameDate)
	assert.Equal(t, "2024-06-02", candidates[2].GameDate)
	for _, c := range candidates {
		assert.Equal(t, "field-b", c.FieldKey)
		assert.Equal(t, "12U", c.Division)
	}
}

func TestExpandValidation(t *testing.T) {
	spec := availability.RuleSetSpec{Rules: []league.AvailabilityRule{mondayRule("r1", "f", 540, 630)}}

	t.Run("bad from date", func(t *testing.T) {
		_, err := availability.Expand(spec, "10U", "junk", "2024-06-30", 90, nil)
		assert.Error(t, err)
	})
	t.Run("to before from", func(t *testing.T) {
		_, err := availability.Expand(spec, "10U", "2024-06-30", "2024-06-01", 90, nil)
		assert.Error(t, err)
	})
	t.Run("non-positive game length", func(t *testing.T) {
		_, err := availability.Expand(spec, "10U", "2024-06-01", "2024-06-30", 0, nil)
		assert.Error(t, err)
	})
	t.Run("inverted rule window", func(t *testing.T) {
		bad := availability.RuleSetSpec{Rules: []league.AvailabilityRule{mondayRule("r1", "f", 630, 540)}}
		_, err := availability.Expand(bad, "10U", "2024-06-01", "2024-06-30", 90, nil)
		assert.Error(t, err)
	})
}

func TestExpandInactiveRuleIgnored(t *testing.T) {
	rule := mondayRule("r1", "field-a", 540, 720)
	rule.Active = false

	candidates, err := availability.Expand(
		availability.RuleSetSpec{Rules: []league.AvailabilityRule{rule}},
		"10U", "2024-06-03", "2024-06-03", 90, nil,
	)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
