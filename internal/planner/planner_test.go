package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/agsafastpitch/leagueops/internal/league"
	"github.com/agsafastpitch/leagueops/internal/metrics"
	"github.com/agsafastpitch/leagueops/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourTeams(division string) []league.Team {
	return []league.Team{
		{ID: "A", Name: "Aces", Division: division},
		{ID: "B", Name: "Bears", Division: division},
		{ID: "C", Name: "Comets", Division: division},
		{ID: "D", Name: "Dynamos", Division: division},
	}
}

func sixOpenSlots(division string) []league.Slot {
	dates := []string{"2024-06-03", "2024-06-05", "2024-06-10", "2024-06-12", "2024-06-17", "2024-06-19"}
	slots := make([]league.Slot, len(dates))
	for i, d := range dates {
		slots[i] = league.Slot{
			ID:          "s" + string(rune('1'+i)),
			Division:    division,
			FieldKey:    "field-1",
			GameDate:    d,
			StartMinute: 1080,
			EndMinute:   1170,
			Status:      league.StatusOpen,
		}
	}
	return slots
}

func TestPreviewSchedule(t *testing.T) {
	store := league.NewMock()
	store.LoadTeamsFunc = func(division string) ([]league.Team, error) {
		return fourTeams(division), nil
	}
	store.LoadOpenSlotsFunc = func(division, dateFrom, dateTo string) ([]league.Slot, error) {
		return sixOpenSlots(division), nil
	}
	m := metrics.NewMock()
	p := New(store, m)

	result, err := p.PreviewSchedule(ScheduleRequest{
		Division: "10U",
		DateFrom: "2024-06-01",
		DateTo:   "2024-06-30",
	})
	require.NoError(t, err)

	assert.Equal(t, 6, result.Result.Summary.SlotsTotal)
	assert.Equal(t, 6, result.Result.Summary.SlotsAssigned)
	assert.Equal(t, 6, result.Result.Summary.MatchupsAssigned)
	assert.Empty(t, result.Result.UnassignedMatchups)
	assert.Empty(t, store.SaveAssignmentCalls, "preview must not write")
	assert.Equal(t, 1, m.ScheduleRunsCalls)
	assert.Len(t, m.AssignmentDurations, 1)
}

func TestPreviewScheduleValidation(t *testing.T) {
	store := league.NewMock()
	store.LoadTeamsFunc = func(division string) ([]league.Team, error) {
		return fourTeams(division), nil
	}
	p := New(store, metrics.NewMock())

	t.Run("bad date", func(t *testing.T) {
		_, err := p.PreviewSchedule(ScheduleRequest{Division: "10U", DateFrom: "June 1st", DateTo: "2024-06-30"})
		assert.Error(t, err)
	})

	t.Run("reversed range", func(t *testing.T) {
		_, err := p.PreviewSchedule(ScheduleRequest{Division: "10U", DateFrom: "2024-06-30", DateTo: "2024-06-01"})
		assert.Error(t, err)
	})

	t.Run("too few teams", func(t *testing.T) {
		solo := league.NewMock()
		solo.LoadTeamsFunc = func(division string) ([]league.Team, error) {
			return []league.Team{{ID: "A", Division: division}}, nil
		}
		_, err := New(solo, metrics.NewMock()).PreviewSchedule(ScheduleRequest{
			Division: "10U", DateFrom: "2024-06-01", DateTo: "2024-06-30",
		})
		assert.ErrorIs(t, err, ErrTooFewTeams)
	})
}

func TestApplySchedule(t *testing.T) {
	store := league.NewMock()
	store.LoadTeamsFunc = func(division string) ([]league.Team, error) {
		return fourTeams(division), nil
	}
	store.LoadOpenSlotsFunc = func(division, dateFrom, dateTo string) ([]league.Slot, error) {
		return sixOpenSlots(division), nil
	}
	m := metrics.NewMock()
	p := New(store, m)

	cons := schedule.Constraints{NoDoubleHeaders: true, BalanceHomeAway: true, MaxGamesPerWeek: 2}
	result, err := p.ApplySchedule(ScheduleRequest{
		Division:    "10U",
		DateFrom:    "2024-06-01",
		DateTo:      "2024-06-30",
		Constraints: cons,
	})
	require.NoError(t, err)

	assert.Equal(t, 6, result.Applied)
	assert.Zero(t, result.Failed)
	assert.NotEmpty(t, result.RunID)
	assert.Len(t, store.SaveAssignmentCalls, 6)
	require.Len(t, store.RecordRunCalls, 1)
	assert.Equal(t, result.RunID, store.RecordRunCalls[0].ID)
	assert.Equal(t, "10U", store.RecordRunCalls[0].Division)
	assert.Equal(t, cons, store.RecordRunCalls[0].Constraints)
	assert.Equal(t, 6, store.RecordRunCalls[0].Summary.SlotsAssigned)
	assert.Equal(t, 1, m.ScheduleAppliesCalls)
}

func TestApplyScheduleContinuesPastWriteFailure(t *testing.T) {
	store := league.NewMock()
	store.LoadTeamsFunc = func(division string) ([]league.Team, error) {
		return fourTeams(division), nil
	}
	store.LoadOpenSlotsFunc = func(division, dateFrom, dateTo string) ([]league.Slot, error) {
		return sixOpenSlots(division), nil
	}
	store.SaveAssignmentFunc = func(slotID, homeTeamID, awayTeamID string, externalOffer bool) error {
		if slotID == "s2" {
			return errors.New("slot s2 is no longer open for assignment")
		}
		return nil
	}
	p := New(store, metrics.NewMock())

	result, err := p.ApplySchedule(ScheduleRequest{
		Division: "10U",
		DateFrom: "2024-06-01",
		DateTo:   "2024-06-30",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, result.Applied)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "s2")
	assert.Len(t, store.SaveAssignmentCalls, 6, "a failed write must not stop the batch")
	assert.Len(t, store.RecordRunCalls, 1, "the run is still recorded")
	assert.NotEmpty(t, result.RunID)
}

func TestApplyScheduleRecordRunError(t *testing.T) {
	store := league.NewMock()
	store.LoadTeamsFunc = func(division string) ([]league.Team, error) {
		return fourTeams(division), nil
	}
	store.LoadOpenSlotsFunc = func(division, dateFrom, dateTo string) ([]league.Slot, error) {
		return sixOpenSlots(division), nil
	}
	store.RecordRunFunc = func(run *league.ScheduleRun) error {
		return errors.New("db locked")
	}
	p := New(store, metrics.NewMock())

	result, err := p.ApplySchedule(ScheduleRequest{
		Division: "10U",
		DateFrom: "2024-06-01",
		DateTo:   "2024-06-30",
	})
	require.Error(t, err)
	require.NotNil(t, result, "applied counts are still reported")
	assert.Equal(t, 6, result.Applied)
	assert.Empty(t, result.RunID)
}

func mondayEveningRule() league.AvailabilityRule {
	return league.AvailabilityRule{
		ID:          "r1",
		FieldKey:    "field-1",
		DaysOfWeek:  []time.Weekday{time.Monday},
		StartMinute: 1080,
		EndMinute:   1200,
		Active:      true,
	}
}

func TestPreviewSlotsRulesMode(t *testing.T) {
	store := league.NewMock()
	store.LoadAvailabilityRulesFunc = func(fieldKey, division string) ([]league.AvailabilityRule, error) {
		return []league.AvailabilityRule{mondayEveningRule()}, nil
	}
	store.LoadBookedSlotsFunc = func(division, dateFrom, dateTo string) ([]league.Slot, error) {
		return []league.Slot{{
			ID:          "booked",
			Division:    division,
			FieldKey:    "field-1",
			GameDate:    "2024-06-03",
			StartMinute: 1080,
			EndMinute:   1170,
			Status:      league.StatusConfirmed,
		}}, nil
	}
	p := New(store, metrics.NewMock())

	// Two Mondays in range, two 60-minute chunks each. The booked slot on
	// June 3rd runs 18:00-19:30 and collides with both chunks that day.
	result, err := p.PreviewSlots(SlotGenRequest{
		Division:          "10U",
		FieldKeys:         []string{"field-1"},
		DateFrom:          "2024-06-01",
		DateTo:            "2024-06-14",
		GameLengthMinutes: 60,
		Mode:              ModeRules,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Total)
	assert.Len(t, result.Conflicts, 2)
	require.Len(t, result.Candidates, 2)
	for _, c := range result.Candidates {
		assert.Equal(t, "2024-06-10", c.GameDate)
	}
	assert.Zero(t, result.Created)
	assert.Empty(t, store.CreateSlotsCalls)
}

func TestPreviewSlotsAllFieldsHonorsFieldBlackout(t *testing.T) {
	rules := []league.AvailabilityRule{
		mondayEveningRule(),
		{
			ID:          "r2",
			FieldKey:    "field-2",
			DaysOfWeek:  []time.Weekday{time.Monday},
			StartMinute: 1080,
			EndMinute:   1200,
			Active:      true,
		},
	}
	store := league.NewMock()
	store.LoadAvailabilityRulesFunc = func(fieldKey, division string) ([]league.AvailabilityRule, error) {
		var out []league.AvailabilityRule
		for _, r := range rules {
			if fieldKey == "" || r.FieldKey == fieldKey {
				out = append(out, r)
			}
		}
		return out, nil
	}
	store.LoadBlackoutsFunc = func(division, fieldKey string) ([]league.BlackoutRange, error) {
		if fieldKey == "field-1" {
			return []league.BlackoutRange{{
				Scope:     league.ScopeField,
				ScopeKey:  "field-1",
				StartDate: "2024-06-10",
				EndDate:   "2024-06-14",
			}}, nil
		}
		return nil, nil
	}
	p := New(store, metrics.NewMock())

	req := SlotGenRequest{
		Division:          "10U",
		DateFrom:          "2024-06-10",
		DateTo:            "2024-06-14",
		GameLengthMinutes: 120,
		Mode:              ModeRules,
	}

	// The blacked-out week has one Monday; with no field keys given the
	// field-1 blackout must still apply, leaving only the field-2 chunk.
	result, err := p.PreviewSlots(req)
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "field-2", result.Candidates[0].FieldKey)
	assert.Equal(t, 1, result.Total)

	// Naming the blacked-out field explicitly yields nothing, and the
	// all-fields result for that field must agree with it.
	req.FieldKeys = []string{"field-1"}
	result, err = p.PreviewSlots(req)
	require.NoError(t, err)
	assert.Zero(t, result.Total)
}

func TestPreviewSlotsNoRules(t *testing.T) {
	store := league.NewMock()
	p := New(store, metrics.NewMock())

	result, err := p.PreviewSlots(SlotGenRequest{
		Division:          "10U",
		FieldKeys:         []string{"field-1"},
		DateFrom:          "2024-06-01",
		DateTo:            "2024-06-14",
		GameLengthMinutes: 60,
		Mode:              ModeRules,
	})
	require.NoError(t, err)
	assert.Zero(t, result.Total)
}

func TestPreviewSlotsFixedMode(t *testing.T) {
	store := league.NewMock()
	p := New(store, metrics.NewMock())

	result, err := p.PreviewSlots(SlotGenRequest{
		Division:          "10U",
		FieldKeys:         []string{"field-2"},
		DateFrom:          "2024-06-01",
		DateTo:            "2024-06-02",
		GameLengthMinutes: 90,
		Mode:              ModeFixed,
		DaysOfWeek:        []time.Weekday{time.Saturday, time.Sunday},
		StartMinute:       540,
		EndMinute:         660,
	})
	require.NoError(t, err)

	// Saturday the 1st and Sunday the 2nd, one 90-minute chunk each
	// before the trailing partial is dropped.
	assert.Equal(t, 2, result.Total)
	assert.Len(t, result.Candidates, 2)
}

func TestPreviewSlotsFixedModeFieldKeyCount(t *testing.T) {
	p := New(league.NewMock(), metrics.NewMock())

	_, err := p.PreviewSlots(SlotGenRequest{
		Division:          "10U",
		FieldKeys:         []string{"field-1", "field-2"},
		DateFrom:          "2024-06-01",
		DateTo:            "2024-06-02",
		GameLengthMinutes: 90,
		Mode:              ModeFixed,
		DaysOfWeek:        []time.Weekday{time.Saturday},
		StartMinute:       540,
		EndMinute:         720,
	})
	assert.Error(t, err)
}

func TestPreviewSlotsBadGameLength(t *testing.T) {
	p := New(league.NewMock(), metrics.NewMock())

	_, err := p.PreviewSlots(SlotGenRequest{
		Division: "10U",
		DateFrom: "2024-06-01",
		DateTo:   "2024-06-02",
		Mode:     ModeRules,
	})
	assert.Error(t, err)
}

func TestApplySlots(t *testing.T) {
	store := league.NewMock()
	store.LoadAvailabilityRulesFunc = func(fieldKey, division string) ([]league.AvailabilityRule, error) {
		return []league.AvailabilityRule{mondayEveningRule()}, nil
	}
	m := metrics.NewMock()
	p := New(store, m)

	result, err := p.ApplySlots(SlotGenRequest{
		Division:          "10U",
		FieldKeys:         []string{"field-1"},
		DateFrom:          "2024-06-01",
		DateTo:            "2024-06-14",
		GameLengthMinutes: 60,
		Mode:              ModeRules,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Created)
	require.Len(t, store.CreateSlotsCalls, 1)
	for _, s := range store.CreateSlotsCalls[0] {
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, "10U", s.Division)
		assert.Equal(t, "field-1", s.FieldKey)
		assert.Equal(t, league.StatusOpen, s.Status)
	}
	assert.Equal(t, 4, m.SlotsGeneratedTotal)
}
