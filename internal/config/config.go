package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/countdown/internal/domain/countdown"
	"github.com/oshokin/countdown/internal/logger"
)

// Config holds the settings shared by countdown-server and countdown-ctl.
type Config struct {
	// ServerAddress is the gRPC address the server listens on and the client dials.
	ServerAddress string `yaml:"server_addr"`
	// Timeout bounds every RPC made by the client.
	Timeout time.Duration `yaml:"timeout"`
	// TickInterval is the period of the shared tick driver.
	TickInterval time.Duration `yaml:"tick_interval"`
	// LogLevel is the minimum zap level, e.g. "info" or "debug".
	LogLevel string `yaml:"log_level"`
	// Alerts configures how completed timers are announced.
	Alerts Alerts `yaml:"alerts"`
	// Presets are timers created when the server starts.
	Presets []Preset `yaml:"presets"`
}

// Alerts configures the alert sinks.
type Alerts struct {
	// JournalFile is where delivered alerts are appended; empty disables the journal.
	JournalFile string `yaml:"journal_file"`
	// Command is run for every alert; "{name}" and "{id}" are substituted in each argument.
	Command []string `yaml:"command"`
	// Desktop shows a notification with the platform's built-in notifier.
	Desktop bool `yaml:"desktop"`
	// DeliveryTimeout bounds a single delivery across all sinks.
	DeliveryTimeout time.Duration `yaml:"delivery_timeout"`
}

// Preset is a timer created at server start.
type Preset struct {
	// Name is the timer label.
	Name string `yaml:"name"`
	// Duration is the countdown length, e.g. "3m" or "1h30m".
	Duration time.Duration `yaml:"duration"`
}

const (
	// DefaultConfigFilename is the default settings file name.
	DefaultConfigFilename = "countdown-settings.yaml"

	// DefaultServerAddress is used when no address is configured.
	DefaultServerAddress = "127.0.0.1:50551"

	// DefaultTimeout is the default duration for RPC calls.
	DefaultTimeout = 5 * time.Second

	// DefaultTickInterval is the default period of the tick driver.
	DefaultTickInterval = time.Second

	// DefaultDeliveryTimeout is the default bound for one alert delivery.
	DefaultDeliveryTimeout = 10 * time.Second

	// DefaultLogLevel is the default minimum log level.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the permission used for files the binaries write.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// ErrNonPositiveTickInterval is returned for a negative tick interval.
	ErrNonPositiveTickInterval = errors.New("tick interval must be positive")
	// ErrUnknownLogLevel is returned for a log level zap does not know.
	ErrUnknownLogLevel = errors.New("unknown log level")
)

// Load reads configuration from path, applies COUNTDOWN_* environment
// overrides and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	applyEnv(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns a default configuration when the
// file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}

	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg = new(Config)
	applyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save validates cfg and writes it to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills in defaults and checks the settings.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ServerAddress == "" {
		cfg.ServerAddress = DefaultServerAddress
	}

	if _, _, err := net.SplitHostPort(cfg.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	switch {
	case cfg.TickInterval == 0:
		cfg.TickInterval = DefaultTickInterval
	case cfg.TickInterval < 0:
		return ErrNonPositiveTickInterval
	}

	if cfg.Alerts.DeliveryTimeout <= 0 {
		cfg.Alerts.DeliveryTimeout = DefaultDeliveryTimeout
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLogLevel, cfg.LogLevel)
	}

	for i, preset := range cfg.Presets {
		if err := countdown.ValidateTimer(preset.Name, preset.Duration); err != nil {
			return fmt.Errorf("preset #%d: %w", i+1, err)
		}
	}

	return nil
}
