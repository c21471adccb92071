package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"trainready/internal/readiness"
)

// Config represents the application configuration
type Config struct {
	Whoop   WhoopConfig   `json:"whoop"`
	Athlete AthleteConfig `json:"athlete"`
	Cycle   CycleConfig   `json:"cycle"`
	Advice  AdviceConfig  `json:"advice"`
}

// WhoopConfig holds WHOOP API credentials
type WhoopConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// AthleteConfig holds athlete-specific settings
type AthleteConfig struct {
	RestingHR float64 `json:"resting_hr"`
	MaxHR     float64 `json:"max_hr"`
}

// CycleConfig holds the menstrual cycle anchor. An empty LastPeriodStart
// disables all cycle-based rules.
type CycleConfig struct {
	LastPeriodStart string `json:"last_period_start"` // "2006-01-02"
	CycleLengthDays int    `json:"cycle_length_days"`
}

// AdviceConfig holds tuning for the readiness advice
type AdviceConfig struct {
	ChronicWindowDays int `json:"chronic_window_days"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// Environment variable overrides for credentials (also read from a .env file
// in the working directory when present).
const (
	envClientID     = "TRAINREADY_WHOOP_CLIENT_ID"
	envClientSecret = "TRAINREADY_WHOOP_CLIENT_SECRET"
)

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Athlete: AthleteConfig{
			RestingHR: 60,
			MaxHR:     190,
		},
		Cycle: CycleConfig{
			CycleLengthDays: readiness.DefaultCycleLengthDays,
		},
		Advice: AdviceConfig{
			ChronicWindowDays: readiness.MinChronicWindowDays,
		},
	}
}

// Load reads the configuration from ~/.trainready/config.json and applies
// environment overrides for credentials.
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()
	if cfg.Athlete.RestingHR == 0 {
		cfg.Athlete.RestingHR = defaults.Athlete.RestingHR
	}
	if cfg.Athlete.MaxHR == 0 {
		cfg.Athlete.MaxHR = defaults.Athlete.MaxHR
	}
	if cfg.Cycle.CycleLengthDays == 0 {
		cfg.Cycle.CycleLengthDays = defaults.Cycle.CycleLengthDays
	}
	if cfg.Advice.ChronicWindowDays == 0 {
		cfg.Advice.ChronicWindowDays = defaults.Advice.ChronicWindowDays
	}
}

func applyEnvOverrides(cfg *Config) {
	// A missing .env file is fine; explicit environment still applies.
	_ = godotenv.Load()

	if v := os.Getenv(envClientID); v != "" {
		cfg.Whoop.ClientID = v
	}
	if v := os.Getenv(envClientSecret); v != "" {
		cfg.Whoop.ClientSecret = v
	}
}

// Save writes the configuration to ~/.trainready/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Whoop = WhoopConfig{
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}

	return Save(&example)
}

// Validate checks if the config has required fields. Domain validation
// happens here so out-of-range values never reach the readiness engine.
func (c *Config) Validate() error {
	if c.Whoop.ClientID == "" || c.Whoop.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("whoop.client_id is required - create an app at https://developer.whoop.com")
	}
	if c.Whoop.ClientSecret == "" || c.Whoop.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("whoop.client_secret is required - create an app at https://developer.whoop.com")
	}

	if c.Athlete.MaxHR <= c.Athlete.RestingHR {
		return fmt.Errorf("athlete.max_hr (%v) must be greater than athlete.resting_hr (%v)",
			c.Athlete.MaxHR, c.Athlete.RestingHR)
	}

	if c.Cycle.LastPeriodStart != "" {
		if _, err := time.Parse("2006-01-02", c.Cycle.LastPeriodStart); err != nil {
			return fmt.Errorf("cycle.last_period_start must be YYYY-MM-DD, got %q", c.Cycle.LastPeriodStart)
		}
		if c.Cycle.CycleLengthDays < readiness.MinCycleLengthDays ||
			c.Cycle.CycleLengthDays > readiness.MaxCycleLengthDays {
			return fmt.Errorf("cycle.cycle_length_days must be in [%d, %d], got %d",
				readiness.MinCycleLengthDays, readiness.MaxCycleLengthDays, c.Cycle.CycleLengthDays)
		}
	}

	if c.Advice.ChronicWindowDays < readiness.MinChronicWindowDays ||
		c.Advice.ChronicWindowDays > readiness.MaxChronicWindowDays {
		return fmt.Errorf("advice.chronic_window_days must be in [%d, %d], got %d",
			readiness.MinChronicWindowDays, readiness.MaxChronicWindowDays, c.Advice.ChronicWindowDays)
	}

	return nil
}

// CycleAnchor returns the parsed anchor date, or nil when cycle tracking is
// not configured.
func (c *Config) CycleAnchor() *time.Time {
	if c.Cycle.LastPeriodStart == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", c.Cycle.LastPeriodStart)
	if err != nil {
		return nil
	}
	return &t
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".trainready", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".trainready"), nil
}
