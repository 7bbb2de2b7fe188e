package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	Defaults      ScheduleDefaults
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// ScheduleDefaults fill in request knobs the caller leaves unset.
type ScheduleDefaults struct {
	GameLengthMinutes    int
	MaxGamesPerWeek      int
	ExternalOfferPerWeek int
}
