package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env             string
	Addr            string
	FrontendURL     string
	DatabaseDSN     string
	RevealDelay     time.Duration
	DisconnectGrace time.Duration
}

// Load reads the environment, with a .env file as optional overlay.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:             getenv("APP_ENV", "development"),
		Addr:            getenv("ADDR", ":8080"),
		FrontendURL:     getenv("FRONTEND_URL", "http://localhost:5173"),
		DatabaseDSN:     os.Getenv("DATABASE_DSN"),
		RevealDelay:     seconds("REVEAL_DELAY_SEC", 3),
		DisconnectGrace: seconds("DISCONNECT_GRACE_SEC", 30),
	}
}

func (c Config) Production() bool {
	return c.Env == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func seconds(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(fallback) * time.Second
}
