package league

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new league Store backed by the given database.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// LoadTeams returns the division roster ordered by team id. The order is
// stable because the round-robin output depends on it.
func (s *store) LoadTeams(division string) ([]Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, division FROM teams
		WHERE division = ?
		ORDER BY id ASC
	`, division)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		var name sql.NullString
		if err := rows.Scan(&t.ID, &name, &t.Division); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		t.Name = name.String
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

const slotColumns = `id, division, field_key, game_date, start_minute, end_minute,
	home_team_id, away_team_id, offering_team_id, external_offer, availability_only,
	status, game_type, notes, created_at`

// LoadOpenSlots returns truly open slots for a division and date range:
// status Open, no away team, and not availability-only.
func (s *store) LoadOpenSlots(division, dateFrom, dateTo string) ([]Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT `+slotColumns+`
		FROM slots
		WHERE division = ?
		  AND game_date >= ? AND game_date <= ?
		  AND status = ?
		  AND (away_team_id IS NULL OR away_team_id = '')
		  AND availability_only = 0
		ORDER BY game_date, start_minute, field_key
	`, division, dateFrom, dateTo, string(StatusOpen))
	if err != nil {
		return nil, fmt.Errorf("failed to query open slots: %w", err)
	}
	defer rows.Close()
	return scanSlots(rows)
}

// LoadBookedSlots returns Open and Confirmed slots for conflict seeding.
func (s *store) LoadBookedSlots(division, dateFrom, dateTo string) ([]Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT `+slotColumns+`
		FROM slots
		WHERE division = ?
		  AND game_date >= ? AND game_date <= ?
		  AND status IN (?, ?)
		ORDER BY game_date, start_minute, field_key
	`, division, dateFrom, dateTo, string(StatusOpen), string(StatusConfirmed))
	if err != nil {
		return nil, fmt.Errorf("failed to query booked slots: %w", err)
	}
	defer rows.Close()
	return scanSlots(rows)
}

func scanSlots(rows *sql.Rows) ([]Slot, error) {
	var slots []Slot
	for rows.Next() {
		var sl Slot
		var home, away, offering, gameType, notes sql.NullString
		var external, availabilityOnly int
		var status string
		err := rows.Scan(
			&sl.ID, &sl.Division, &sl.FieldKey, &sl.GameDate, &sl.StartMinute, &sl.EndMinute,
			&home, &away, &offering, &external, &availabilityOnly,
			&status, &gameType, &notes, &sl.CreatedAt,
		)
		if err != nil {
			log.Error("Failed to scan slot row", "error", err)
			continue
		}
		sl.HomeTeamID = home.String
		sl.AwayTeamID = away.String
		sl.OfferingTeamID = offering.String
		sl.ExternalOffer = external != 0
		sl.AvailabilityOnly = availabilityOnly != 0
		sl.Status = SlotStatus(status)
		sl.GameType = gameType.String
		sl.Notes = notes.String
		slots = append(slots, sl)
	}
	return slots, rows.Err()
}

// LoadAvailabilityRules returns active rules for a field, scoped to the
// division or league-wide. An empty fieldKey matches every field.
func (s *store) LoadAvailabilityRules(fieldKey, division string) ([]AvailabilityRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, field_key, division, days_of_week, start_minute, end_minute, starts_on, ends_on, active
		FROM availability_rules
		WHERE active = 1
		  AND (? = '' OR field_key = ?)
		  AND (division = '' OR division = ?)
		ORDER BY field_key, id
	`, fieldKey, fieldKey, division)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability rules: %w", err)
	}
	defer rows.Close()

	var rules []AvailabilityRule
	for rows.Next() {
		var r AvailabilityRule
		var days string
		var div, startsOn, endsOn sql.NullString
		var active int
		if err := rows.Scan(&r.ID, &r.FieldKey, &div, &days, &r.StartMinute, &r.EndMinute, &startsOn, &endsOn, &active); err != nil {
			log.Error("Failed to scan availability rule row", "error", err)
			continue
		}
		r.Division = div.String
		r.StartsOn = startsOn.String
		r.EndsOn = endsOn.String
		r.Active = active != 0
		r.DaysOfWeek = daysFromCSV(days)
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// LoadBlackouts returns the union of league, division, and field blackouts.
func (s *store) LoadBlackouts(division, fieldKey string) ([]BlackoutRange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, scope, scope_key, start_date, end_date, label
		FROM blackouts
		WHERE scope = 'league'
		   OR (scope = 'division' AND scope_key = ?)
		   OR (scope = 'field' AND scope_key = ?)
		ORDER BY start_date, id
	`, division, fieldKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query blackouts: %w", err)
	}
	defer rows.Close()

	var blackouts []BlackoutRange
	for rows.Next() {
		var b BlackoutRange
		var scopeKey, label sql.NullString
		if err := rows.Scan(&b.ID, &b.Scope, &scopeKey, &b.StartDate, &b.EndDate, &label); err != nil {
			log.Error("Failed to scan blackout row", "error", err)
			continue
		}
		b.ScopeKey = scopeKey.String
		b.Label = label.String
		blackouts = append(blackouts, b)
	}
	return blackouts, rows.Err()
}

// SaveAssignment writes a matchup onto a previously unassigned Open slot.
// The update is conditional so a concurrent or repeated apply cannot
// clobber an already-assigned slot; zero rows affected is a write conflict.
func (s *store) SaveAssignment(slotID, homeTeamID, awayTeamID string, externalOffer bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE slots
		SET home_team_id = ?, away_team_id = ?, external_offer = ?
		WHERE id = ?
		  AND status = ?
		  AND (away_team_id IS NULL OR away_team_id = '')
		  AND availability_only = 0
	`, homeTeamID, awayTeamID, boolToInt(externalOffer), slotID, string(StatusOpen))
	if err != nil {
		return fmt.Errorf("failed to save assignment for slot %s: %w", slotID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected for slot %s: %w", slotID, err)
	}
	if affected == 0 {
		return fmt.Errorf("slot %s is no longer open for assignment", slotID)
	}
	return nil
}

// CreateSlots inserts a batch of slots. Failed rows are logged and skipped
// so one bad row does not abort the batch; the count of created rows is
// returned.
func (s *store) CreateSlots(slots []Slot) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO slots (` + slotColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare slot insert: %w", err)
	}
	defer stmt.Close()

	created := 0
	for _, sl := range slots {
		createdAt := sl.CreatedAt
		if createdAt == 0 {
			createdAt = time.Now().Unix()
		}
		_, err := stmt.Exec(
			sl.ID, sl.Division, sl.FieldKey, sl.GameDate, sl.StartMinute, sl.EndMinute,
			sl.HomeTeamID, sl.AwayTeamID, sl.OfferingTeamID, boolToInt(sl.ExternalOffer), boolToInt(sl.AvailabilityOnly),
			string(sl.Status), sl.GameType, sl.Notes, createdAt,
		)
		if err != nil {
			log.Error("Failed to insert slot", "error", err, "slotID", sl.ID)
			continue
		}
		created++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit slot batch: %w", err)
	}
	return created, nil
}

// UpdateSlotStatus transitions a slot to a new status, enforcing the slot
// state machine.
func (s *store) UpdateSlotStatus(slotID string, status SlotStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current string
	err := s.db.QueryRow("SELECT status FROM slots WHERE id = ?", slotID).Scan(&current)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("slot not found: %s", slotID)
		}
		return fmt.Errorf("failed to load slot status: %w", err)
	}
	if !SlotStatus(current).CanTransition(status) {
		return fmt.Errorf("illegal slot status transition %s -> %s", current, status)
	}

	_, err = s.db.Exec("UPDATE slots SET status = ? WHERE id = ?", string(status), slotID)
	if err != nil {
		return fmt.Errorf("failed to update slot status: %w", err)
	}
	log.Info("Updated slot status", "slotID", slotID, "from", current, "to", status)
	return nil
}

// RecordRun persists the audit record of an apply invocation. Runs are
// write-once; there is no update path.
func (s *store) RecordRun(run *ScheduleRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	constraintsJSON, err := json.Marshal(run.Constraints)
	if err != nil {
		return fmt.Errorf("failed to marshal constraints: %w", err)
	}
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().Unix()
	}
	_, err = s.db.Exec(`
		INSERT INTO schedule_runs (id, division, date_from, date_to, constraints_json, summary_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Division, run.DateFrom, run.DateTo, constraintsJSON, summaryJSON, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record schedule run: %w", err)
	}
	log.Info("Recorded schedule run", "runID", run.ID, "division", run.Division)
	return nil
}

// GetRun retrieves a schedule run by id. A missing run is (nil, nil).
func (s *store) GetRun(runID string) (*ScheduleRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, division, date_from, date_to, constraints_json, summary_json, created_at
		FROM schedule_runs WHERE id = ?
	`, runID)
	run, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get schedule run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves all runs for a division, newest first.
func (s *store) ListRuns(division string) ([]*ScheduleRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, division, date_from, date_to, constraints_json, summary_json, created_at
		FROM schedule_runs
		WHERE division = ?
		ORDER BY created_at DESC
	`, division)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule runs: %w", err)
	}
	defer rows.Close()

	var runs []*ScheduleRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			log.Error("Failed to scan schedule run row", "error", err)
			continue
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(scanner interface{ Scan(...any) error }) (*ScheduleRun, error) {
	var run ScheduleRun
	var constraintsJSON, summaryJSON []byte
	err := scanner.Scan(&run.ID, &run.Division, &run.DateFrom, &run.DateTo, &constraintsJSON, &summaryJSON, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(constraintsJSON) > 0 {
		if err := json.Unmarshal(constraintsJSON, &run.Constraints); err != nil {
			log.Error("Failed to unmarshal constraints_json", "error", err, "runID", run.ID)
		}
	}
	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &run.Summary); err != nil {
			log.Error("Failed to unmarshal summary_json", "error", err, "runID", run.ID)
		}
	}
	return &run, nil
}

// UpsertTeams inserts or updates roster entries.
func (s *store) UpsertTeams(teams []Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO teams (id, name, division)
		VALUES (?, ?, ?)
		ON CONFLICT(id, division) DO UPDATE SET name = excluded.name
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare team upsert: %w", err)
	}
	defer stmt.Close()

	for _, t := range teams {
		if _, err := stmt.Exec(t.ID, t.Name, t.Division); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert team %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// UpsertRule inserts or updates an availability rule.
func (s *store) UpsertRule(rule *AvailabilityRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO availability_rules (id, field_key, division, days_of_week, start_minute, end_minute, starts_on, ends_on, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			field_key = excluded.field_key,
			division = excluded.division,
			days_of_week = excluded.days_of_week,
			start_minute = excluded.start_minute,
			end_minute = excluded.end_minute,
			starts_on = excluded.starts_on,
			ends_on = excluded.ends_on,
			active = excluded.active
	`, rule.ID, rule.FieldKey, rule.Division, daysToCSV(rule.DaysOfWeek), rule.StartMinute, rule.EndMinute, rule.StartsOn, rule.EndsOn, boolToInt(rule.Active))
	if err != nil {
		return fmt.Errorf("failed to upsert availability rule %s: %w", rule.ID, err)
	}
	return nil
}

// AddBlackout inserts a blackout range and backfills its generated id.
func (s *store) AddBlackout(blackout *BlackoutRange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		INSERT INTO blackouts (scope, scope_key, start_date, end_date, label)
		VALUES (?, ?, ?, ?, ?)
	`, blackout.Scope, blackout.ScopeKey, blackout.StartDate, blackout.EndDate, blackout.Label)
	if err != nil {
		return fmt.Errorf("failed to add blackout: %w", err)
	}
	id, err := res.LastInsertId()
	if err == nil {
		blackout.ID = id
	}
	return nil
}

// Clear wipes every table. Test and dev support only.
func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}
	for _, table := range []string{"slots", "teams", "availability_rules", "blackouts", "schedule_runs"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			tx.Rollback()
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func daysToCSV(days []time.Weekday) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	return strings.Join(parts, ",")
}

func daysFromCSV(csv string) []time.Weekday {
	if csv == "" {
		return nil
	}
	var days []time.Weekday
	for _, part := range strings.Split(csv, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			log.Warn("Skipping malformed day-of-week entry", "entry", part)
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}
