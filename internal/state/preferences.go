package state

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/username/workdays/internal/calendar"
	"github.com/username/workdays/internal/config"
	"github.com/username/workdays/internal/revenue"
)

// Preferences is the user's last-used selections
type Preferences struct {
	Country             string             `json:"country"`
	Year                int                `json:"year"`
	Rate                revenue.RateConfig `json:"rate"`
	Currency            string             `json:"currency"`
	FirstDayOfWeek      string             `json:"first_day_of_week"`
	DefaultCountry      string             `json:"default_country"`
	ContributionPercent *float64           `json:"contribution_percent"`
	ManualDays          *int               `json:"manual_days"`
	UpdatedAt           string             `json:"updated_at,omitempty"`
}

// Defaults builds preferences from configuration for the given year
func Defaults(cfg config.DefaultsConfig, year int) Preferences {
	return Preferences{
		Country:        cfg.Country,
		Year:           year,
		Rate:           cfg.Rate,
		Currency:       strings.ToUpper(cfg.Currency),
		FirstDayOfWeek: strings.ToLower(cfg.FirstDayOfWeek),
		DefaultCountry: cfg.Country,
	}
}

// Store loads and saves the preferences file
type Store struct {
	path     string
	defaults Preferences
	prefs    *Preferences
	logger   *zap.Logger
}

// NewStore creates a preferences store; defaults apply until a file exists
func NewStore(path string, defaults Preferences, logger *zap.Logger) *Store {
	return &Store{
		path:     path,
		defaults: defaults,
		logger:   logger,
	}
}

// Load reads the preferences file
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// created on first save
			p := s.defaults
			s.prefs = &p
			return nil
		}
		return fmt.Errorf("failed to read preferences file: %w", err)
	}

	p := s.defaults
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to parse preferences file: %w", err)
	}

	s.prefs = &p
	s.logger.Debug("Preferences loaded",
		zap.String("country", p.Country),
		zap.Int("year", p.Year))

	return nil
}

// Save writes the preferences file
func (s *Store) Save() error {
	return s.save(s.Get())
}

// save writes p and makes it current only once the file is written
func (s *Store) save(p Preferences) error {
	p.UpdatedAt = time.Now().Format(time.RFC3339)

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create preferences directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences file: %w", err)
	}

	s.prefs = &p
	s.logger.Debug("Preferences saved", zap.String("file", s.path))

	return nil
}

// Get returns a copy of the current preferences
func (s *Store) Get() Preferences {
	if s.prefs == nil {
		return s.defaults
	}
	return *s.prefs
}

func (s *Store) update(fn func(p *Preferences)) error {
	p := s.Get()
	fn(&p)
	return s.save(p)
}

// SetCountry selects the country, which must have a known calendar
func (s *Store) SetCountry(country string) error {
	code, err := knownCountry(country)
	if err != nil {
		return err
	}
	return s.update(func(p *Preferences) { p.Country = code })
}

// SetDefaultCountry sets the country used when no selection was made
func (s *Store) SetDefaultCountry(country string) error {
	code, err := knownCountry(country)
	if err != nil {
		return err
	}
	return s.update(func(p *Preferences) { p.DefaultCountry = code })
}

// SetYear selects the calendar year
func (s *Store) SetYear(year int) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("year must be between 1 and 9999, got %d", year)
	}
	return s.update(func(p *Preferences) { p.Year = year })
}

// SetRate replaces the billing rate
func (s *Store) SetRate(rc revenue.RateConfig) error {
	if err := rc.Validate(); err != nil {
		return err
	}
	rc.Type = strings.ToLower(rc.Type)
	return s.update(func(p *Preferences) { p.Rate = rc })
}

// SetCurrency selects the display currency
func (s *Store) SetCurrency(code string) error {
	c, err := revenue.GetCurrency(code)
	if err != nil {
		return err
	}
	return s.update(func(p *Preferences) { p.Currency = c.Code })
}

// SetFirstDayOfWeek selects the first column of the month grid
func (s *Store) SetFirstDayOfWeek(day string) error {
	wd, err := config.ParseWeekday(day)
	if err != nil {
		return err
	}
	return s.update(func(p *Preferences) { p.FirstDayOfWeek = strings.ToLower(wd.String()) })
}

// SetContribution sets the contribution percentage; nil disables it
func (s *Store) SetContribution(percent *float64) error {
	if percent != nil {
		if math.IsNaN(*percent) || math.IsInf(*percent, 0) {
			return fmt.Errorf("contribution must be a finite percentage, got %v", *percent)
		}
		v := revenue.ClampPercent(*percent)
		percent = &v
	}
	return s.update(func(p *Preferences) { p.ContributionPercent = percent })
}

// SetManualDays overrides the calculated day count; nil returns to the calculation
func (s *Store) SetManualDays(days *int) error {
	if days != nil && *days < 0 {
		return fmt.Errorf("manual days must not be negative, got %d", *days)
	}
	return s.update(func(p *Preferences) { p.ManualDays = days })
}

// FirstWeekday returns the first day of the week as a time.Weekday
func (p Preferences) FirstWeekday() time.Weekday {
	wd, err := config.ParseWeekday(p.FirstDayOfWeek)
	if err != nil {
		return time.Sunday
	}
	return wd
}

// ActiveCountry returns the selected country, falling back to the default
func (p Preferences) ActiveCountry() string {
	if p.Country != "" {
		return p.Country
	}
	return p.DefaultCountry
}

func knownCountry(country string) (string, error) {
	code := calendar.NormalizeCountry(country)
	for _, c := range calendar.AvailableCountries() {
		if c.Code == code {
			return code, nil
		}
	}
	return "", fmt.Errorf("unknown country %q", country)
}
