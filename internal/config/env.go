package config

import (
	"os"
	"strconv"
)

// Env holds deployment knobs that are not part of the engine's directive
// grammar: HTTP port, auth secrets, music-root resolution. Kept as an
// env-overlay in the teacher's config.Load() style, composed alongside
// (not instead of) the directive-file Config above.
type Env struct {
	Port        string
	MusicDir    string
	JWTSecret   string
	DJUsername  string
	DJPassword  string
	Timezone    string
	MaxClients  int
	StationName string
}

// LoadEnv reads deployment knobs from the process environment.
func LoadEnv() *Env {
	return &Env{
		Port:        getEnv("PORT", "8000"),
		MusicDir:    getEnv("MUSIC_DIR", "./music"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me-in-production-please"),
		DJUsername:  getEnv("DJ_USERNAME", "dj"),
		DJPassword:  getEnv("DJ_PASSWORD", "denpa"),
		Timezone:    getEnv("TIMEZONE", ""),
		MaxClients:  getEnvAsInt("MAX_CLIENTS", 100),
		StationName: getEnv("STATION_NAME", "Denpa Radio"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultVal
}
