package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// envPaths are probed in order; the first one found is loaded.
var envPaths = []string{
	".env",
	".env.local",
	"../.env",
	"../../.env",
}

// LoadEnv loads environment variables from the first .env file found. It is
// not an error when none exists, since variables may be set system-wide.
// Variables already present in the environment are never overridden.
func LoadEnv() (string, error) {
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return "", fmt.Errorf("error loading %s file: %w", envPath, err)
		}
		return envPath, nil
	}
	return "", nil
}
