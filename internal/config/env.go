package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ServeConfig holds the environment-driven settings for the streaming
// server. Simulation parameters still come from a scenario Config; this
// only covers the HTTP surface.
type ServeConfig struct {
	Environment   string
	Port          string
	TickHz        int
	EventsPerTick int
	AllowedOrigin string
}

// LoadServe reads the server settings from the environment, loading a .env
// file first when one exists.
func LoadServe() *ServeConfig {
	godotenv.Load()

	return &ServeConfig{
		Environment:   getEnv("APP_ENV", "development"),
		Port:          getEnv("APP_PORT", "8080"),
		TickHz:        getEnvInt("TICK_HZ", 30),
		EventsPerTick: getEnvInt("EVENTS_PER_TICK", 256),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
