package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/agsafastpitch/leagueops/internal/league"
	"github.com/agsafastpitch/leagueops/internal/metrics"
	"github.com/agsafastpitch/leagueops/internal/overlap"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// LeagueAdmin is the offering team recorded on slots the league itself
// provides. The assigner ignores it when fixing home teams.
const LeagueAdmin = "LEAGUE_ADMIN"

var requiredColumns = []string{"division", "offeringTeamId", "gameDate", "startTime", "endTime", "fieldKey", "gameType", "status", "notes"}

// Importer parses slot CSV files and persists the surviving rows.
type Importer struct {
	store   league.Store
	metrics metrics.Metrics
}

// New creates a new Importer.
func New(store league.Store, metricsSvc metrics.Metrics) *Importer {
	return &Importer{
		store:   store,
		metrics: metricsSvc,
	}
}

// RowError records why a single CSV line was skipped.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result summarises one import run.
type Result struct {
	Parsed     int        `json:"parsed"`
	Created    int        `json:"created"`
	Duplicates int        `json:"duplicates"`
	Conflicts  int        `json:"conflicts"`
	Skipped    []RowError `json:"skipped,omitempty"`
	DryRun     bool       `json:"dry_run"`
}

// Import reads the CSV, validates each row, drops in-file duplicates and
// rows colliding with already-stored slots, and creates the rest as Open
// slots. Row-level problems are collected, never fatal; only a malformed
// file or a storage failure aborts the run.
func (imp *Importer) Import(r io.Reader, dryRun bool) (*Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	result := &Result{DryRun: dryRun}
	seen := overlap.New()
	var slots []league.Slot
	now := time.Now().Unix()

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Reason: err.Error()})
			continue
		}
		result.Parsed++

		slot, err := parseRow(record, cols)
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Reason: err.Error()})
			continue
		}

		if !seen.AddUnique(overlap.Key(slot.FieldKey, slot.GameDate), slot.StartMinute, slot.EndMinute) {
			result.Duplicates++
			result.Skipped = append(result.Skipped, RowError{Line: line, Reason: "duplicate of an earlier row in this file"})
			continue
		}

		slot.ID = uuid.New().String()
		slot.CreatedAt = now
		slots = append(slots, slot)
	}

	slots, conflicted, err := imp.dropStoredConflicts(slots)
	if err != nil {
		return nil, err
	}
	result.Conflicts = len(conflicted)
	for _, c := range conflicted {
		result.Skipped = append(result.Skipped, RowError{Line: 0, Reason: fmt.Sprintf("slot %s %s %s overlaps an existing slot", c.FieldKey, c.GameDate, league.ClockFromMinutes(c.StartMinute))})
	}

	if !dryRun && len(slots) > 0 {
		created, err := imp.store.CreateSlots(slots)
		if err != nil {
			return result, fmt.Errorf("failed to create imported slots: %w", err)
		}
		result.Created = created
		imp.metrics.AddSlotsImported(created)
	}
	imp.metrics.AddImportRowsSkipped(len(result.Skipped))

	log.Info("Imported slot CSV",
		"parsed", result.Parsed,
		"created", result.Created,
		"duplicates", result.Duplicates,
		"conflicts", result.Conflicts,
		"skipped", len(result.Skipped),
		"dryRun", dryRun,
	)
	return result, nil
}

// dropStoredConflicts partitions the batch against Open and Confirmed slots
// already in the store, loaded once per division over the batch's date span.
func (imp *Importer) dropStoredConflicts(slots []league.Slot) (kept, conflicted []league.Slot, err error) {
	if len(slots) == 0 {
		return nil, nil, nil
	}

	spans := map[string][2]string{}
	for _, s := range slots {
		span, ok := spans[s.Division]
		if !ok {
			spans[s.Division] = [2]string{s.GameDate, s.GameDate}
			continue
		}
		if s.GameDate < span[0] {
			span[0] = s.GameDate
		}
		if s.GameDate > span[1] {
			span[1] = s.GameDate
		}
		spans[s.Division] = span
	}

	booked := overlap.New()
	for division, span := range spans {
		existing, err := imp.store.LoadBookedSlots(division, span[0], span[1])
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load booked slots for division %s: %w", division, err)
		}
		for _, s := range existing {
			booked.Add(overlap.Key(s.FieldKey, s.GameDate), s.StartMinute, s.EndMinute)
		}
	}

	for _, s := range slots {
		if booked.HasOverlap(overlap.Key(s.FieldKey, s.GameDate), s.StartMinute, s.EndMinute) {
			conflicted = append(conflicted, s)
			continue
		}
		kept = append(kept, s)
	}
	return kept, conflicted, nil
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("CSV header is missing column %q", name)
		}
	}
	return cols, nil
}

func parseRow(record []string, cols map[string]int) (league.Slot, error) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	division := field("division")
	if division == "" {
		return league.Slot{}, fmt.Errorf("division is required")
	}
	fieldKey := field("fieldKey")
	if fieldKey == "" {
		return league.Slot{}, fmt.Errorf("fieldKey is required")
	}

	gameDate := field("gameDate")
	if _, err := league.ParseDate(gameDate); err != nil {
		return league.Slot{}, err
	}
	startMinute, err := league.MinutesFromClock(field("startTime"))
	if err != nil {
		return league.Slot{}, fmt.Errorf("bad startTime: %w", err)
	}
	endMinute, err := league.MinutesFromClock(field("endTime"))
	if err != nil {
		return league.Slot{}, fmt.Errorf("bad endTime: %w", err)
	}
	if endMinute <= startMinute {
		return league.Slot{}, fmt.Errorf("endTime %s is not after startTime %s", field("endTime"), field("startTime"))
	}

	status := league.SlotStatus(field("status"))
	if status == "" {
		status = league.StatusOpen
	}
	if !league.ValidStatus(status) {
		return league.Slot{}, fmt.Errorf("unknown status %q", field("status"))
	}

	gameType := field("gameType")
	if gameType == "" {
		gameType = "Swap"
	}
	offeringTeamID := field("offeringTeamId")
	if offeringTeamID == "" {
		offeringTeamID = LeagueAdmin
	}

	return league.Slot{
		Division:       division,
		FieldKey:       fieldKey,
		GameDate:       gameDate,
		StartMinute:    startMinute,
		EndMinute:      endMinute,
		OfferingTeamID: offeringTeamID,
		Status:         status,
		GameType:       gameType,
		Notes:          field("notes"),
	}, nil
}
