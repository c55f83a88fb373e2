package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"fjacquet/fillcash/internal/logging"
)

// LoadEnv loads environment variables from the first .env file found in
// the current or parent directory. It returns the loaded file, or "" when
// none exists.
func LoadEnv(logger logging.Logger) string {
	for _, envFile := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file", logging.F(logging.FieldFile, envFile))
			return ""
		}
		logger.Debug("Loaded environment variables", logging.F(logging.FieldFile, envFile))
		return envFile
	}
	return ""
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// NewLogger builds the application logger from the log section.
func NewLogger(cfg *Config) logging.Logger {
	return logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
}
