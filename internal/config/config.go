package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/username/workdays/internal/calendar"
	"github.com/username/workdays/internal/revenue"
)

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	State    StateConfig    `mapstructure:"state"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig selects where holiday calendars come from
type CalendarConfig struct {
	DataDir         string `mapstructure:"data_dir"`   // <country>/<year>.json|.yaml; empty = embedded dataset
	RemoteURL       string `mapstructure:"remote_url"` // template with {country} and {year}
	GenerateMissing bool   `mapstructure:"generate_missing"`
	HTTPTimeout     string `mapstructure:"http_timeout"`
}

// DefaultsConfig seeds the preferences file on first run
type DefaultsConfig struct {
	Country        string             `mapstructure:"country"`
	Currency       string             `mapstructure:"currency"`
	FirstDayOfWeek string             `mapstructure:"first_day_of_week"`
	Rate           revenue.RateConfig `mapstructure:"rate"`
}

// StateConfig represents state storage configuration
type StateConfig struct {
	DatabaseFile    string `mapstructure:"database_file"`
	PreferencesFile string `mapstructure:"preferences_file"`
}

// LogConfig configures the optional rotating log file
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.data_dir", "")
	v.SetDefault("calendar.remote_url", "")
	v.SetDefault("calendar.generate_missing", true)
	v.SetDefault("calendar.http_timeout", "10s")

	v.SetDefault("defaults.country", "us")
	v.SetDefault("defaults.currency", "USD")
	v.SetDefault("defaults.first_day_of_week", "sunday")
	v.SetDefault("defaults.rate.type", revenue.RateTypeDaily)
	v.SetDefault("defaults.rate.daily_rate", 0)
	v.SetDefault("defaults.rate.hourly_rate", 0)
	v.SetDefault("defaults.rate.hours_per_day", 8)

	v.SetDefault("state.database_file", "workdays.db")
	v.SetDefault("state.preferences_file", "workdays-state.json")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "warn")
}

// Load loads configuration from file. An explicit path must exist; without one
// the usual locations are searched and built-in defaults apply when none is found.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.workdays")
		v.AddConfigPath("/etc/workdays")
	}

	// WORKDAYS_DEFAULTS_COUNTRY overrides defaults.country
	v.SetEnvPrefix("WORKDAYS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()
	config.Defaults.Country = calendar.NormalizeCountry(config.Defaults.Country)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := revenue.GetCurrency(c.Defaults.Currency); err != nil {
		return fmt.Errorf("defaults.currency: %w", err)
	}
	if _, err := ParseWeekday(c.Defaults.FirstDayOfWeek); err != nil {
		return fmt.Errorf("defaults.first_day_of_week: %w", err)
	}
	if err := c.Defaults.Rate.Validate(); err != nil {
		return fmt.Errorf("defaults.rate: %w", err)
	}
	if c.Defaults.Country == "" {
		return fmt.Errorf("defaults.country is required")
	}

	if c.Calendar.HTTPTimeout != "" {
		if _, err := time.ParseDuration(c.Calendar.HTTPTimeout); err != nil {
			return fmt.Errorf("calendar.http_timeout: %w", err)
		}
	}
	if c.Calendar.RemoteURL != "" && !strings.HasPrefix(c.Calendar.RemoteURL, "http") {
		return fmt.Errorf("calendar.remote_url must be an http(s) URL, got '%s'", c.Calendar.RemoteURL)
	}

	if c.State.DatabaseFile == "" {
		return fmt.Errorf("state.database_file is required")
	}
	if c.State.PreferencesFile == "" {
		return fmt.Errorf("state.preferences_file is required")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got '%s'", c.Log.Level)
	}

	return nil
}

// GetHTTPTimeout returns the remote calendar timeout
func (c *CalendarConfig) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout == "" {
		return 10 * time.Second
	}
	duration, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return duration
}

// FirstWeekday returns the configured first day of the week, Sunday when unset
func (c *DefaultsConfig) FirstWeekday() time.Weekday {
	day, err := ParseWeekday(c.FirstDayOfWeek)
	if err != nil {
		return time.Sunday
	}
	return day
}

// ParseWeekday accepts "sunday" or "monday" (case-insensitive)
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("first day of week must be 'sunday' or 'monday', got '%s'", s)
	}
}

// ExpandEnvVars expands environment variables in path settings
func (c *Config) ExpandEnvVars() {
	c.Calendar.DataDir = os.ExpandEnv(c.Calendar.DataDir)
	c.State.DatabaseFile = os.ExpandEnv(c.State.DatabaseFile)
	c.State.PreferencesFile = os.ExpandEnv(c.State.PreferencesFile)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
