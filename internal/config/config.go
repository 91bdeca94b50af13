package config

import (
	"os"
	"path/filepath"

	"fjacquet/budget-buddy/internal/logging"

	"github.com/joho/godotenv"
)

// DefaultEnvFiles lists where LoadEnv looks for a .env file, in order.
var DefaultEnvFiles = []string{".env", filepath.Join("..", ".env")}

// LoadEnv loads environment variables from the first existing file among
// candidates (DefaultEnvFiles when none are given). Variables already set in
// the process environment win over the file. It returns the loaded file, or
// "" when nothing was loaded.
func LoadEnv(logger logging.Logger, candidates ...string) string {
	if len(candidates) == 0 {
		candidates = DefaultEnvFiles
	}

	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			if logger != nil {
				logger.WithError(err).Warn("Error loading .env file",
					logging.Field{Key: logging.FieldFile, Value: envFile})
			}
			return ""
		}
		if logger != nil {
			logger.Debug("Loaded environment variables",
				logging.Field{Key: logging.FieldFile, Value: envFile})
		}
		return envFile
	}

	if logger != nil {
		logger.Debug("No .env file found, using environment variables")
	}
	return ""
}
