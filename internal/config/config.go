package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}
	getEnvOr := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}
	getIntOr := func(key string, fallback int) int {
		value, ok := os.LookupEnv(key)
		if !ok || value == "" {
			return fallback
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			log.Warn("Invalid integer environment variable, using default", "key", key, "value", value, "default", fallback)
			return fallback
		}
		return n
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: getEnvOr("MIGRATIONS_DIR", "./migrations"),
		Port:          getEnv("PORT"),
		Turso: TursoConfig{
			PrimaryURL: getEnvOr("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvOr("TURSO_AUTH_TOKEN", ""),
		},
		Defaults: ScheduleDefaults{
			GameLengthMinutes:    getIntOr("DEFAULT_GAME_LENGTH_MINUTES", 90),
			MaxGamesPerWeek:      getIntOr("DEFAULT_MAX_GAMES_PER_WEEK", 2),
			ExternalOfferPerWeek: getIntOr("DEFAULT_EXTERNAL_OFFER_PER_WEEK", 1),
		},
	}
	return cfg
}
