package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv reads a .env file when present; real environment variables win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetInt is Get for integers; unparsable values fall back with a log line.
func GetInt(key string, fallback int) int {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: key=%s value=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

// GetFloat is Get for floating point values.
func GetFloat(key string, fallback float64) float64 {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: key=%s value=%q is not a number, using %g", key, v, fallback)
		return fallback
	}
	return f
}

// Settings groups the process-level configuration shared by the commands.
type Settings struct {
	Port         string
	DatabaseURL  string
	DBPath       string
	SeedPath     string
	GAConfigPath string
	RedisURL     string
	NatsURL      string
	WebhookURL   string
	RateLimitRPS float64
	RateBurst    int
}

// FromEnv reads Settings from the environment.
func FromEnv() Settings {
	return Settings{
		Port:         Get("PORT", "8080"),
		DatabaseURL:  Get("DATABASE_URL", ""),
		DBPath:       Get("DB_PATH", "data/app.db"),
		SeedPath:     Get("SEED_PATH", "data/seeds/instances.json"),
		GAConfigPath: Get("GA_CONFIG", ""),
		RedisURL:     Get("REDIS_URL", ""),
		NatsURL:      Get("NATS_URL", ""),
		WebhookURL:   Get("WEBHOOK_URL", ""),
		RateLimitRPS: GetFloat("RATE_LIMIT_RPS", 2),
		RateBurst:    GetInt("RATE_LIMIT_BURST", 4),
	}
}
