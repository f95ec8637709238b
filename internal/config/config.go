// Package config loads fraudtab settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "fraudtab.yaml"

// Config holds all fraudtab configuration.
type Config struct {
	Upstream UpstreamConfig `yaml:"upstream"`
	View     ViewConfig     `yaml:"view"`
	Format   FormatConfig   `yaml:"format"`
	Export   ExportConfig   `yaml:"export"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// UpstreamConfig configures the analysis service client.
type UpstreamConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	Timeout        string `yaml:"timeout"`
	HealthInterval string `yaml:"health_interval"`
}

// ViewConfig configures table paging.
type ViewConfig struct {
	PageSize int `yaml:"page_size"`
}

// FormatConfig configures cell formatting.
type FormatConfig struct {
	Currency string `yaml:"currency"` // ISO 4217 code
	TimeZone string `yaml:"time_zone"`
}

// ExportConfig configures export artifacts.
type ExportConfig struct {
	Dir       string `yaml:"dir"`
	SheetName string `yaml:"sheet_name"`
	Title     string `yaml:"title"`
	// PDFFont is an optional UTF-8 TrueType font for PDF reports.
	PDFFont string `yaml:"pdf_font"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			BaseURL:        "https://fraud-detection-api-qqgl.onrender.com",
			Timeout:        "60s",
			HealthInterval: "30s",
		},
		View: ViewConfig{
			PageSize: 10,
		},
		Format: FormatConfig{
			Currency: "USD",
			TimeZone: "UTC",
		},
		Export: ExportConfig{
			Dir:       ".",
			SheetName: "Sheet1",
			Title:     "Fraud Detection Analysis Report",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
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
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("FRAUDTAB_API_BASE_URL"); url != "" {
		c.Upstream.BaseURL = url
	}
	if key := os.Getenv("FRAUDTAB_API_KEY"); key != "" {
		c.Upstream.APIKey = key
	}
	if addr := os.Getenv("FRAUDTAB_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv("FRAUDTAB_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Upstream.BaseURL == "" {
		errs = append(errs, errors.New("upstream.base_url is required"))
	}
	if _, err := time.ParseDuration(c.Upstream.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("upstream.timeout: %w", err))
	}
	if d, err := time.ParseDuration(c.Upstream.HealthInterval); err != nil {
		errs = append(errs, fmt.Errorf("upstream.health_interval: %w", err))
	} else if d <= 0 {
		errs = append(errs, errors.New("upstream.health_interval must be positive"))
	}
	if c.View.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("view.page_size must be positive, got %d", c.View.PageSize))
	}
	if _, err := currency.ParseISO(c.Format.Currency); err != nil {
		errs = append(errs, fmt.Errorf("format.currency %q: %w", c.Format.Currency, err))
	}
	if _, err := time.LoadLocation(c.Format.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("format.time_zone: %w", err))
	}
	if c.Export.PDFFont != "" {
		if _, err := os.Stat(c.Export.PDFFont); err != nil {
			errs = append(errs, fmt.Errorf("export.pdf_font: %w", err))
		}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	return errors.Join(errs...)
}

// GetTimeout returns the upstream request timeout.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Upstream.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// GetHealthInterval returns the time between two health checks.
func (c *Config) GetHealthInterval() time.Duration {
	d, err := time.ParseDuration(c.Upstream.HealthInterval)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// GetLocation returns the display time zone.
func (c *Config) GetLocation() *time.Location {
	loc, err := time.LoadLocation(c.Format.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
