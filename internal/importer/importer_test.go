package importer

import (
	"strings"
	"testing"

	"github.com/agsafastpitch/leagueops/internal/league"
	"github.com/agsafastpitch/leagueops/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "division,offeringTeamId,gameDate,startTime,endTime,fieldKey,gameType,status,notes\n"

func TestImport(t *testing.T) {
	store := league.NewMock()
	m := metrics.NewMock()
	imp := New(store, m)

	body := csvHeader +
		"10U,A,2024-06-03,18:00,19:30,field-1,Swap,Open,offered by Aces\n" +
		"10U,,2024-06-03,19:30,21:00,field-1,,,\n" +
		"12U,B,2024-06-04,18:00,19:30,field-2,Swap,Open,\n"

	result, err := imp.Import(strings.NewReader(body), false)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Parsed)
	assert.Equal(t, 3, result.Created)
	assert.Empty(t, result.Skipped)
	require.Len(t, store.CreateSlotsCalls, 1)
	created := store.CreateSlotsCalls[0]
	require.Len(t, created, 3)

	first := created[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "10U", first.Division)
	assert.Equal(t, "A", first.OfferingTeamID)
	assert.Equal(t, 1080, first.StartMinute)
	assert.Equal(t, 1170, first.EndMinute)
	assert.Equal(t, league.StatusOpen, first.Status)
	assert.Equal(t, "offered by Aces", first.Notes)

	second := created[1]
	assert.Equal(t, LeagueAdmin, second.OfferingTeamID)
	assert.Equal(t, "Swap", second.GameType)
	assert.Equal(t, league.StatusOpen, second.Status)

	assert.Equal(t, 3, m.SlotsImportedTotal)
	assert.Zero(t, m.ImportRowsSkippedTotal)
}

func TestImportSkipsBadRows(t *testing.T) {
	store := league.NewMock()
	imp := New(store, metrics.NewMock())

	body := csvHeader +
		",A,2024-06-03,18:00,19:30,field-1,,,\n" +
		"10U,A,June 3rd,18:00,19:30,field-1,,,\n" +
		"10U,A,2024-06-03,25:00,26:00,field-1,,,\n" +
		"10U,A,2024-06-03,19:30,18:00,field-1,,,\n" +
		"10U,A,2024-06-03,18:00,19:30,field-1,,Booked,\n" +
		"10U,A,2024-06-03,18:00,19:30,,,,\n" +
		"10U,A,2024-06-03,18:00,19:30,field-1,,,\n"

	result, err := imp.Import(strings.NewReader(body), false)
	require.NoError(t, err)

	assert.Equal(t, 7, result.Parsed)
	assert.Equal(t, 1, result.Created)
	assert.Len(t, result.Skipped, 6)
	require.Len(t, store.CreateSlotsCalls, 1)
	assert.Len(t, store.CreateSlotsCalls[0], 1)
}

func TestImportDetectsInFileDuplicates(t *testing.T) {
	store := league.NewMock()
	imp := New(store, metrics.NewMock())

	row := "10U,A,2024-06-03,18:00,19:30,field-1,,,\n"
	result, err := imp.Import(strings.NewReader(csvHeader+row+row), false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0].Reason, "duplicate")
}

func TestImportDetectsStoredConflicts(t *testing.T) {
	store := league.NewMock()
	store.LoadBookedSlotsFunc = func(division, dateFrom, dateTo string) ([]league.Slot, error) {
		return []league.Slot{{
			ID:          "existing",
			Division:    division,
			FieldKey:    "field-1",
			GameDate:    "2024-06-03",
			StartMinute: 1110,
			EndMinute:   1200,
			Status:      league.StatusConfirmed,
		}}, nil
	}
	imp := New(store, metrics.NewMock())

	body := csvHeader +
		"10U,A,2024-06-03,18:00,19:30,field-1,,,\n" +
		"10U,B,2024-06-03,20:00,21:30,field-1,,,\n"

	result, err := imp.Import(strings.NewReader(body), false)
	require.NoError(t, err)

	// 18:30-20:00 is already booked: the first row overlaps it, the
	// second only touches its end.
	assert.Equal(t, 1, result.Conflicts)
	assert.Equal(t, 1, result.Created)
	require.Len(t, store.CreateSlotsCalls, 1)
	assert.Equal(t, 1200, store.CreateSlotsCalls[0][0].StartMinute)
}

func TestImportDryRun(t *testing.T) {
	store := league.NewMock()
	m := metrics.NewMock()
	imp := New(store, m)

	body := csvHeader + "10U,A,2024-06-03,18:00,19:30,field-1,,,\n"
	result, err := imp.Import(strings.NewReader(body), true)
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Parsed)
	assert.Zero(t, result.Created)
	assert.Empty(t, store.CreateSlotsCalls)
	assert.Zero(t, m.SlotsImportedTotal)
}

func TestImportRejectsMissingHeader(t *testing.T) {
	imp := New(league.NewMock(), metrics.NewMock())

	_, err := imp.Import(strings.NewReader("division,gameDate\n10U,2024-06-03\n"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}
