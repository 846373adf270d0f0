package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Matchmaking
	DefaultRadiusKm    float64
	RatingBand         int
	RecentOpponentDays int

	// Rating
	EloKFactor    int
	DefaultRating int

	// Lifecycle sweeps
	ExpirySweepMinutes    int
	ReminderSweepMinutes  int
	ReminderWindowMinutes int

	// Weather (optional)
	OpenWeatherBaseURL  string
	OpenWeatherAPIKey   string
	WeatherCacheMinutes int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/sportsmatch?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Matchmaking
		DefaultRadiusKm:    getEnvFloat("MATCH_RADIUS_KM", 10),
		RatingBand:         getEnvInt("MATCH_RATING_BAND", 200),
		RecentOpponentDays: getEnvInt("RECENT_OPPONENT_DAYS", 7),

		// Rating
		EloKFactor:    getEnvInt("ELO_K_FACTOR", 32),
		DefaultRating: getEnvInt("DEFAULT_RATING", 1200),

		// Lifecycle sweeps
		ExpirySweepMinutes:    getEnvInt("EXPIRY_SWEEP_MINUTES", 5),
		ReminderSweepMinutes:  getEnvInt("REMINDER_SWEEP_MINUTES", 15),
		ReminderWindowMinutes: getEnvInt("REMINDER_WINDOW_MINUTES", 60),

		// Weather
		OpenWeatherBaseURL:  getEnv("OPENWEATHER_BASE_URL", "https://api.openweathermap.org"),
		OpenWeatherAPIKey:   getEnv("OPENWEATHER_API_KEY", ""),
		WeatherCacheMinutes: getEnvInt("WEATHER_CACHE_MINUTES", 15),
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

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
