package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort      string
	DatabaseDSN   string
	SessionCookie string // nom du cookie de session
	LogLevel      string
	LogDev        bool
}

func Load() *Config {
	// .env local, ignoré s'il n'existe pas
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=gestion port=5432 sslmode=disable"),
		SessionCookie: getEnv("SESSION_COOKIE", "gestion_session"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogDev:        os.Getenv("LOG_DEV") == "1",
	}

	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=gestion port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN utilise la valeur par défaut, à remplacer en production.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
