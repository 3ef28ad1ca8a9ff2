// Package config loads the service configuration from an optional YAML file,
// then applies environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

type Config struct {
	Listen         string        `yaml:"listen"`
	AllowedDomain  string        `yaml:"allowed-domain"`
	PageSize       string        `yaml:"page-size"`
	Font           string        `yaml:"font"`
	MinColumn      float64       `yaml:"min-column"`
	MaxColumn      float64       `yaml:"max-column"`
	DefaultFolder  string        `yaml:"default-folder"`
	RequestTimeout time.Duration `yaml:"request-timeout"`
	HTTP2          bool          `yaml:"http2"`
	RateLimit      RateLimit     `yaml:"rate-limit"`
	Log            Log           `yaml:"log"`
	Endpoints      Endpoints     `yaml:"endpoints"`
}

// RateLimit is per client IP. A zero PerSecond disables rate limiting.
type RateLimit struct {
	PerSecond float64 `yaml:"per-second"`
	Burst     int     `yaml:"burst"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Endpoints override the Google API base URLs. Empty means the library default.
type Endpoints struct {
	UserInfo string `yaml:"userinfo"`
	Sheets   string `yaml:"sheets"`
	Drive    string `yaml:"drive"`
}

var PageSizes = []string{"letter", "a4", "legal"}

func DefaultConfig() *Config {
	return &Config{
		Listen:         ":8080",
		AllowedDomain:  "",
		PageSize:       "letter",
		MinColumn:      24,
		MaxColumn:      240,
		RequestTimeout: 60 * time.Second,
		HTTP2:          false,
		RateLimit: RateLimit{
			PerSecond: 0,
			Burst:     5,
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the YAML file (if any) over the defaults and then applies the
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(path) != "" {
		bytes, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: unable to read configuration file (%v)", types.ErrConfiguration, err)
		}

		if err := yaml.Unmarshal(bytes, cfg); err != nil {
			return nil, fmt.Errorf("%w: invalid configuration file %v (%v)", types.ErrConfiguration, path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	bytes, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, bytes, 0640)
}

func (c *Config) applyEnvOverrides() {
	if v, ok := os.LookupEnv("ALLOWED_DOMAIN"); ok {
		c.AllowedDomain = strings.TrimSpace(v)
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		c.Listen = ":" + v
	}

	if v := strings.TrimSpace(os.Getenv("DEFAULT_FOLDER")); v != "" {
		c.DefaultFolder = v
	}

	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Listen) == "" {
		return fmt.Errorf("%w: missing listen address", types.ErrConfiguration)
	}

	size := strings.ToLower(strings.TrimSpace(c.PageSize))
	known := false
	for _, v := range PageSizes {
		if v == size {
			known = true
		}
	}

	if !known {
		return fmt.Errorf("%w: invalid page-size '%v' - expected one of %v", types.ErrConfiguration, c.PageSize, PageSizes)
	}

	if c.MinColumn <= 0 {
		return fmt.Errorf("%w: min-column must be positive (%v)", types.ErrConfiguration, c.MinColumn)
	}

	if c.MaxColumn < c.MinColumn {
		return fmt.Errorf("%w: max-column (%v) is less than min-column (%v)", types.ErrConfiguration, c.MaxColumn, c.MinColumn)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request-timeout must be positive (%v)", types.ErrConfiguration, c.RequestTimeout)
	}

	if c.RateLimit.PerSecond < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("%w: invalid rate-limit %+v", types.ErrConfiguration, c.RateLimit)
	}

	if c.Font != "" {
		if _, err := os.Stat(c.Font); err != nil {
			return fmt.Errorf("%w: font file %v (%v)", types.ErrConfiguration, c.Font, err)
		}
	}

	return nil
}
