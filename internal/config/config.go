// Package config defines the notas client configuration.
package config

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/notas/internal/store/remote"
)

// Themes accepted by ui.theme.
const (
	ThemeClassic = "classic"
	ThemeNeon    = "neon"
	ThemeMono    = "mono"
)

// Config represents the client configuration.
type Config struct {
	API APIConfig `yaml:"api"`
	Log LogConfig `yaml:"log"`
	UI  UIConfig  `yaml:"ui"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return c.UI.Validate()
}

// APIConfig points the client at the notas service.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Validate validates the API configuration.
func (c *APIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// LogConfig holds diagnostics logging configuration.
// An empty File means the caller picks the destination.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Validate validates the logging configuration.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.By(logLevel)),
	)
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme   string `yaml:"theme"`
	NoColor bool   `yaml:"no_color"`
}

// Validate validates the UI configuration.
func (c *UIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Theme, validation.In(ThemeClassic, ThemeNeon, ThemeMono)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: remote.DefaultBaseURL,
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level: zerolog.InfoLevel.String(),
		},
		UI: UIConfig{
			Theme: ThemeClassic,
		},
	}
}

// DefaultLogFile is where the interactive client logs, since it owns the terminal.
func DefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "notas.log"
	}
	return filepath.Join(dir, "notas", "notas.log")
}

func httpURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return errors.New("must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must use http or https")
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

func logLevel(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := zerolog.ParseLevel(s); err != nil {
		return errors.New("must be one of trace, debug, info, warn, error, fatal, panic, disabled")
	}
	return nil
}
