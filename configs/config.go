package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   int
	DBDriver   string // "postgres" or "sqlite"
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string
	RedisAddr  string // empty disables the directory cache
	JWTSecret  string
	TokenTTL   time.Duration
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	return Config{
		HTTPPort:   envInt("HTTP_PORT", 3004),
		DBDriver:   envString("DB_DRIVER", "postgres"),
		DBHost:     envString("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBUser:     envString("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     envString("DB_NAME", "officehub"),
		SQLitePath: envString("SQLITE_PATH", "officehub.db"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		JWTSecret:  envString("JWT_SECRET", "secret"),
		TokenTTL:   time.Duration(envInt("TOKEN_TTL_MINUTES", 60)) * time.Minute,
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
