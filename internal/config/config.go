package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	BackendURL      string
	BatchDelayMS    int
	RequestTimeoutS int
	Env             string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	batchDelay, err := strconv.Atoi(GetEnv("BATCH_PROCESS_DELAY_MS", "500"))
	if err != nil || batchDelay < 0 {
		batchDelay = 500
	}

	timeout, err := strconv.Atoi(GetEnv("BACKEND_TIMEOUT_SECONDS", "60"))
	if err != nil || timeout <= 0 {
		timeout = 60
	}

	return &Config{
		Port:            GetEnv("PORT", "8080"),
		BackendURL:      GetEnv("BACKEND_URL", "http://localhost:5000/api"),
		BatchDelayMS:    batchDelay,
		RequestTimeoutS: timeout,
		Env:             GetEnv("ENV", "development"),
	}, nil
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	return nil
}
