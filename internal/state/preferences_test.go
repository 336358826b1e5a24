package state

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/username/workdays/internal/config"
	"github.com/username/workdays/internal/revenue"
)

func testDefaults() Preferences {
	return Defaults(config.DefaultsConfig{
		Country:        "us",
		Currency:       "usd",
		FirstDayOfWeek: "Sunday",
		Rate:           revenue.RateConfig{Type: revenue.RateTypeDaily, DailyRate: 400},
	}, 2025)
}

func TestStore_LoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	s := NewStore(path, testDefaults(), zap.NewNop())

	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	p := s.Get()
	if p.Country != "us" || p.Year != 2025 || p.Currency != "USD" || p.FirstDayOfWeek != "sunday" {
		t.Errorf("Get() = %+v, want defaults", p)
	}
	if p.ContributionPercent != nil || p.ManualDays != nil {
		t.Errorf("optional values should be unset, got %+v", p)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Load() must not create the file, stat err = %v", err)
	}
}

func TestStore_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.json")
	s := NewStore(path, testDefaults(), zap.NewNop())
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}

	percent := 15.0
	days := 18
	steps := []struct {
		name string
		fn   func() error
	}{
		{"country", func() error { return s.SetCountry("FR") }},
		{"year", func() error { return s.SetYear(2026) }},
		{"rate", func() error {
			return s.SetRate(revenue.RateConfig{Type: "Hourly", HourlyRate: 60, HoursPerDay: 7})
		}},
		{"currency", func() error { return s.SetCurrency("eur") }},
		{"first day", func() error { return s.SetFirstDayOfWeek("monday") }},
		{"contribution", func() error { return s.SetContribution(&percent) }},
		{"manual days", func() error { return s.SetManualDays(&days) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			t.Fatalf("set %s: %v", step.name, err)
		}
	}

	reloaded := NewStore(path, testDefaults(), zap.NewNop())
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	p := reloaded.Get()
	if p.Country != "france" || p.Year != 2026 || p.Currency != "EUR" {
		t.Errorf("reloaded = %+v", p)
	}
	if p.Rate.Type != revenue.RateTypeHourly || p.Rate.HourlyRate != 60 || p.Rate.HoursPerDay != 7 {
		t.Errorf("Rate = %+v", p.Rate)
	}
	if p.FirstWeekday() != time.Monday {
		t.Errorf("FirstWeekday() = %v, want Monday", p.FirstWeekday())
	}
	if p.ContributionPercent == nil || *p.ContributionPercent != 15 {
		t.Errorf("ContributionPercent = %v, want 15", p.ContributionPercent)
	}
	if p.ManualDays == nil || *p.ManualDays != 18 {
		t.Errorf("ManualDays = %v, want 18", p.ManualDays)
	}
	if p.UpdatedAt == "" {
		t.Error("UpdatedAt should be set on save")
	}

	// clearing optional values
	if err := reloaded.SetManualDays(nil); err != nil {
		t.Fatal(err)
	}
	if err := reloaded.SetContribution(nil); err != nil {
		t.Fatal(err)
	}
	if p := reloaded.Get(); p.ManualDays != nil || p.ContributionPercent != nil {
		t.Errorf("optional values not cleared: %+v", p)
	}
}

func TestStore_SettersValidate(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "prefs.json"), testDefaults(), zap.NewNop())
	negative := -1
	nan := math.NaN()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"unknown country", func() error { return s.SetCountry("atlantis") }},
		{"year zero", func() error { return s.SetYear(0) }},
		{"bad rate", func() error { return s.SetRate(revenue.RateConfig{Type: "weekly"}) }},
		{"bad currency", func() error { return s.SetCurrency("XXX") }},
		{"bad first day", func() error { return s.SetFirstDayOfWeek("wednesday") }},
		{"negative manual days", func() error { return s.SetManualDays(&negative) }},
		{"NaN rate", func() error {
			return s.SetRate(revenue.RateConfig{Type: revenue.RateTypeDaily, DailyRate: math.NaN()})
		}},
		{"NaN contribution", func() error { return s.SetContribution(&nan) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); err == nil {
				t.Errorf("%s: expected error", tt.name)
			}
		})
	}

	if got := s.Get(); got.Country != "us" || got.Year != 2025 || got.Rate.DailyRate != 400 || got.ContributionPercent != nil {
		t.Errorf("failed setters changed preferences: %+v", got)
	}
}

func TestStore_FailedSaveKeepsPreferences(t *testing.T) {
	// the parent of the preferences file is a regular file, so every save fails
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	s := NewStore(filepath.Join(blocker, "prefs.json"), testDefaults(), zap.NewNop())

	if err := s.SetYear(2030); err == nil {
		t.Fatal("SetYear() should fail when the file cannot be written")
	}
	if err := s.SetRate(revenue.RateConfig{Type: revenue.RateTypeDaily, DailyRate: 999}); err == nil {
		t.Fatal("SetRate() should fail when the file cannot be written")
	}

	if got := s.Get(); got.Year != 2025 || got.Rate.DailyRate != 400 {
		t.Errorf("Get() = %+v, want the previous preferences after failed saves", got)
	}
}

func TestStore_ContributionClamped(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "prefs.json"), testDefaults(), zap.NewNop())
	over := 140.0
	if err := s.SetContribution(&over); err != nil {
		t.Fatal(err)
	}
	if got := s.Get().ContributionPercent; got == nil || *got != 100 {
		t.Errorf("ContributionPercent = %v, want 100", got)
	}
}

func TestStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := NewStore(path, testDefaults(), zap.NewNop()).Load(); err == nil {
		t.Error("Load() of a corrupt file should fail")
	}
}

func TestPreferences_ActiveCountry(t *testing.T) {
	if got := (Preferences{DefaultCountry: "france"}).ActiveCountry(); got != "france" {
		t.Errorf("ActiveCountry() = %q, want france", got)
	}
	if got := (Preferences{Country: "us", DefaultCountry: "france"}).ActiveCountry(); got != "us" {
		t.Errorf("ActiveCountry() = %q, want us", got)
	}
}
