package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	JWTSecret      string
	AllowedOrigins []string
	ExecTimeout    time.Duration
	PythonBin      string
	NodeBin        string
	TokenTTL       time.Duration
}

// Load reads configuration from the environment, with a local .env as a dev
// convenience.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		JWTSecret:      getenv("JWT_SECRET", "supersecretkey"),
		AllowedOrigins: strings.Split(getenv("ALLOWED_ORIGINS", "*"), ","),
		ExecTimeout:    getDuration("EXEC_TIMEOUT", 10*time.Second),
		PythonBin:      getenv("PYTHON_BIN", "python3"),
		NodeBin:        getenv("NODE_BIN", "node"),
		TokenTTL:       getDuration("TOKEN_TTL", 30*time.Minute),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
