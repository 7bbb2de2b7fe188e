package main

import (
	"os"
	"time"

	"github.com/agsafastpitch/leagueops/internal/database"
	"github.com/agsafastpitch/leagueops/internal/league"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Seeds a local database with a small development league: two divisions,
// weekday evening availability on two fields and a summer blackout.
func main() {
	log.Info("Starting database seeder...")

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "leagueops-dev.db"
	}
	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "./migrations"
	}

	db, teardown, err := database.InitDB(dbName, "", "", migrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	store := league.New(db)
	startTime := time.Now()

	teams := []league.Team{
		{ID: "aces", Name: "Aces", Division: "10U"},
		{ID: "bears", Name: "Bears", Division: "10U"},
		{ID: "comets", Name: "Comets", Division: "10U"},
		{ID: "dynamos", Name: "Dynamos", Division: "10U"},
		{ID: "eagles", Name: "Eagles", Division: "12U"},
		{ID: "falcons", Name: "Falcons", Division: "12U"},
		{ID: "giants", Name: "Giants", Division: "12U"},
		{ID: "hornets", Name: "Hornets", Division: "12U"},
	}
	if err := store.UpsertTeams(teams); err != nil {
		log.Fatalf("Failed to seed teams: %s", err)
	}
	log.Info("Seeded teams", "count", len(teams))

	rules := []league.AvailabilityRule{
		{
			ID:          "north-weeknights",
			FieldKey:    "north-field",
			DaysOfWeek:  []time.Weekday{time.Monday, time.Wednesday},
			StartMinute: 17 * 60,
			EndMinute:   21 * 60,
			Active:      true,
		},
		{
			ID:          "south-weeknights",
			FieldKey:    "south-field",
			DaysOfWeek:  []time.Weekday{time.Tuesday, time.Thursday},
			StartMinute: 17 * 60,
			EndMinute:   21 * 60,
			Active:      true,
		},
		{
			ID:          "north-saturdays",
			FieldKey:    "north-field",
			DaysOfWeek:  []time.Weekday{time.Saturday},
			StartMinute: 9 * 60,
			EndMinute:   15 * 60,
			Active:      true,
		},
	}
	for _, rule := range rules {
		if err := store.UpsertRule(&rule); err != nil {
			log.Fatalf("Failed to seed availability rule %s: %s", rule.ID, err)
		}
	}
	log.Info("Seeded availability rules", "count", len(rules))

	blackouts := []league.BlackoutRange{
		{Scope: league.ScopeLeague, StartDate: "2026-07-01", EndDate: "2026-07-07", Label: "Independence week"},
		{Scope: league.ScopeField, ScopeKey: "south-field", StartDate: "2026-06-15", EndDate: "2026-06-19", Label: "Field maintenance"},
	}
	for i := range blackouts {
		if err := store.AddBlackout(&blackouts[i]); err != nil {
			log.Fatalf("Failed to seed blackout %q: %s", blackouts[i].Label, err)
		}
	}
	log.Info("Seeded blackouts", "count", len(blackouts))

	log.Info("Seeding complete", "duration", time.Since(startTime))
}
