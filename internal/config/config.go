// Package config resolves server settings from .env files, an optional
// config.yaml under INTERVALS_HOME and the process environment, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kokistudios/intervals-mcp/internal/intervals"
)

// Environment variables read by Load.
const (
	EnvHome        = "INTERVALS_HOME"
	EnvAPIKey      = "API_KEY"
	EnvAthleteID   = "ATHLETE_ID"
	EnvBaseURL     = "INTERVALS_API_BASE_URL"
	EnvMetricsAddr = "INTERVALS_METRICS_ADDR"
	EnvLogLevel    = "INTERVALS_LOG_LEVEL"

	fileName = "config.yaml"
)

var athleteIDPattern = regexp.MustCompile(`^i?\d+$`)

// APIConfig holds Intervals.icu API settings.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// AthleteConfig holds the default athlete.
type AthleteConfig struct {
	ID string `yaml:"id,omitempty"`
}

// MetricsConfig holds the optional Prometheus listener.
type MetricsConfig struct {
	Address string `yaml:"address,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Config holds server configuration. The API key is only ever read from
// the environment and is never persisted.
type Config struct {
	Version string        `yaml:"version"`
	API     APIConfig     `yaml:"api"`
	Athlete AthleteConfig `yaml:"athlete,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
	Log     LogConfig     `yaml:"log"`

	APIKey string `yaml:"-"`
	Home   string `yaml:"-"`
}

// Issue represents a health check finding.
type Issue struct {
	Severity string // "warning" or "error"
	Message  string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Version: "1",
		API:     APIConfig{BaseURL: intervals.DefaultBaseURL},
		Log:     LogConfig{Level: "info"},
	}
}

// Home returns the INTERVALS_HOME path, defaulting to ~/.intervals-mcp.
func Home() string {
	if h := os.Getenv(EnvHome); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".intervals-mcp")
	}
	return filepath.Join(home, ".intervals-mcp")
}

// Path returns the config file path inside home.
func Path(home string) string {
	return filepath.Join(home, fileName)
}

// Init creates home and writes a default config file.
func Init(home string, force bool) error {
	if _, err := os.Stat(Path(home)); err == nil && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", Path(home))
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", home, err)
	}
	cfg := DefaultConfig()
	cfg.Home = home
	return cfg.Save()
}

// LoadFile reads config.yaml from home. A missing file yields defaults;
// missing fields are filled from defaults.
func LoadFile(home string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Home = home

	data, err := os.ReadFile(Path(home))
	if errors.Is(err, os.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config at %s: %w", Path(home), err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", fileName, err)
	}
	return &cfg, nil
}

// Load loads the first .env file found, then config.yaml, then applies
// environment overrides. It does not validate.
func Load(home string) (*Config, error) {
	for _, p := range envPaths(home) {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err != nil {
				log.Warn("failed to load .env", "path", p, "err", err)
			}
			break
		}
	}

	cfg, err := LoadFile(home)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// envPaths lists .env candidates in lookup order.
func envPaths(home string) []string {
	var paths []string
	cwd, err := os.Getwd()
	if err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	paths = append(paths, filepath.Join(home, ".env"))
	if err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(cwd), ".env"))
	}
	return paths
}

func (c *Config) applyEnv() {
	c.APIKey = getEnvString(EnvAPIKey, c.APIKey)
	c.Athlete.ID = getEnvString(EnvAthleteID, c.Athlete.ID)
	c.API.BaseURL = getEnvString(EnvBaseURL, c.API.BaseURL)
	c.Metrics.Address = getEnvString(EnvMetricsAddr, c.Metrics.Address)
	c.Log.Level = getEnvString(EnvLogLevel, c.Log.Level)
}

func getEnvString(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// Validate reports configuration the server cannot start with. All
// violations are returned together, keyed by setting name.
func (c *Config) Validate() error {
	return validation.Errors{
		EnvAPIKey: validation.Validate(c.APIKey,
			validation.Required.Error("is not set (export it or add it to a .env file)")),
		EnvAthleteID: validation.Validate(c.Athlete.ID,
			validation.Required.Error("is not set"),
			validation.Match(athleteIDPattern).Error("must be all digits (e.g. 123456) or start with 'i' followed by digits (e.g. i123456)")),
		EnvLogLevel: validation.Validate(c.Log.Level, validation.By(checkLevel)),
	}.Filter()
}

func checkLevel(value any) error {
	s, _ := value.(string)
	if _, err := log.ParseLevel(s); err != nil {
		return fmt.Errorf("invalid log level %q", s)
	}
	return nil
}

// ValidAthleteID reports whether id looks like an Intervals.icu athlete ID.
func ValidAthleteID(id string) bool {
	return athleteIDPattern.MatchString(id)
}

// Save writes the config file, creating home if needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.Home, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", c.Home, err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(Path(c.Home), data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// SetConfigValue sets a config value by dot-path key (e.g. "athlete.id")
// and saves the file.
func (c *Config) SetConfigValue(key, value string) error {
	switch key {
	case "api.base_url":
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("api.base_url must be an http(s) URL")
		}
		c.API.BaseURL = strings.TrimRight(value, "/")
	case "athlete.id":
		if !ValidAthleteID(value) {
			return fmt.Errorf("athlete.id must be digits, optionally prefixed with 'i'")
		}
		c.Athlete.ID = value
	case "metrics.address":
		c.Metrics.Address = value
	case "log.level":
		if _, err := log.ParseLevel(value); err != nil {
			return fmt.Errorf("log.level must be one of debug, info, warn, error")
		}
		c.Log.Level = value
	default:
		return fmt.Errorf("unknown config key: %s\nValid keys: api.base_url, athlete.id, metrics.address, log.level", key)
	}
	return c.Save()
}

// CheckHealth inspects the config file and the resolved settings.
func CheckHealth(cfg *Config) []Issue {
	var issues []Issue

	data, err := os.ReadFile(Path(cfg.Home))
	switch {
	case errors.Is(err, os.ErrNotExist):
		issues = append(issues, Issue{"warning", fmt.Sprintf("no config file at %s (defaults in use)", Path(cfg.Home))})
	case err != nil:
		issues = append(issues, Issue{"error", fmt.Sprintf("cannot read %s: %v", fileName, err)})
	default:
		var raw Config
		if err := yaml.Unmarshal(data, &raw); err != nil {
			issues = append(issues, Issue{"error", fmt.Sprintf("%s is not valid YAML: %v", fileName, err)})
		}
	}

	if cfg.APIKey == "" {
		issues = append(issues, Issue{"error", fmt.Sprintf("%s is not set", EnvAPIKey)})
	}
	switch {
	case cfg.Athlete.ID == "":
		issues = append(issues, Issue{"error", fmt.Sprintf("%s is not set", EnvAthleteID)})
	case !ValidAthleteID(cfg.Athlete.ID):
		issues = append(issues, Issue{"error", fmt.Sprintf("athlete ID %q is malformed", cfg.Athlete.ID)})
	}
	if _, err := log.ParseLevel(cfg.Log.Level); err != nil {
		issues = append(issues, Issue{"error", fmt.Sprintf("invalid log level %q", cfg.Log.Level)})
	}

	return issues
}

// MaskedKey returns the API key with all but its last four characters hidden.
func (c *Config) MaskedKey() string {
	if c.APIKey == "" {
		return "(not set)"
	}
	if len(c.APIKey) <= 4 {
		return strings.Repeat("*", len(c.APIKey))
	}
	return strings.Repeat("*", len(c.APIKey)-4) + c.APIKey[len(c.APIKey)-4:]
}
