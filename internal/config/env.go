package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	// EnvServerAddress overrides server_addr.
	EnvServerAddress = "COUNTDOWN_SERVER_ADDR"
	// EnvLogLevel overrides log_level.
	EnvLogLevel = "COUNTDOWN_LOG_LEVEL"
	// EnvJournalFile overrides alerts.journal_file.
	EnvJournalFile = "COUNTDOWN_JOURNAL_FILE"

	// DefaultEnvFilename is the dotenv file read by the binaries at startup.
	DefaultEnvFilename = ".env"
)

// LoadEnvFile copies KEY=VALUE pairs from path into the process environment
// without overwriting variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFilename
	}

	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}

	return nil
}

// applyEnv overrides settings from COUNTDOWN_* variables.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvServerAddress); ok && v != "" {
		cfg.ServerAddress = v
	}

	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}

	if v, ok := os.LookupEnv(EnvJournalFile); ok {
		cfg.Alerts.JournalFile = v
	}
}
