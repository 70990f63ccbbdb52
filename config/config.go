package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every environment-driven option the service recognizes.
// The defaults are development-only values and must be overridden in any
// real deployment.
type Config struct {
	ServerPort   string
	Env          string
	DatabaseDSN  string
	AllowOrigins string

	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
	BcryptCost    int

	KafkaBroker   string
	KafkaTopic    string
	KafkaUsername string
	KafkaPassword string

	CloudinaryURL string
}

func LoadConfig() Config {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file loaded:", err)
		}
	}

	return Config{
		ServerPort:   getEnv("SERVER_PORT", ":8080"),
		Env:          getEnv("APP_ENV", "development"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=ingredisense port=5432 sslmode=disable"),
		AllowOrigins: getEnv("ALLOW_ORIGINS", "http://localhost:5173,http://localhost:5174"),

		AccessSecret:  getEnv("JWT_SECRET", "dev-only-access-secret-change-me-please-32chars"),
		AccessTTL:     getDuration("JWT_EXPIRE", time.Hour),
		RefreshSecret: getEnv("JWT_REFRESH_SECRET", "dev-only-refresh-secret-change-me-please-32chars"),
		RefreshTTL:    getDuration("JWT_REFRESH_EXPIRE", 7*24*time.Hour),
		BcryptCost:    getInt("BCRYPT_ROUNDS", 12),

		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    os.Getenv("KAFKA_TOPIC"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),

		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}
