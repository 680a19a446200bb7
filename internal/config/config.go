package config

import (
	"os"
	"strings"
)

type Config struct {
	PostgresURI     string
	RedisURI        string
	Port            string
	Environment     string   // ENV: production, development, etc.
	AllowedOrigins  []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	ShazamAPIKey    string   // RapidAPI key for the Shazam-style search
	FreesoundAPIKey string   // Token for the Freesound-style search
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		if u := strings.TrimSpace(getEnv("FRONTEND_URL", "http://localhost:3000")); u != "" {
			allowedOrigins = append(allowedOrigins, u)
		}
	}

	return &Config{
		PostgresURI:     getEnv("POSTGRES_URI", "postgres://localhost:5432/melodia?sslmode=disable"),
		RedisURI:        getEnv("REDIS_URI", "redis://localhost:6379/0"),
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		AllowedOrigins:  allowedOrigins,
		ShazamAPIKey:    getEnv("SHAZAM_API_KEY", ""),
		FreesoundAPIKey: getEnv("FREESOUND_API_KEY", ""),
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
