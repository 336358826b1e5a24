package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/username/workdays/internal/revenue"
	"github.com/username/workdays/internal/state"
)

func setCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Show or change saved preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				return printPreferences(cmd, a.prefs.Get())
			})
		},
	}

	cmd.AddCommand(
		setRateCmd(),
		setPreferenceCmd("contribution PERCENT|off", "Set the contribution percentage deducted from revenue", func(s *state.Store, v string) error {
			if isOff(v) {
				return s.SetContribution(nil)
			}
			percent, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
			if err != nil {
				return fmt.Errorf("invalid percentage %q", v)
			}
			return s.SetContribution(&percent)
		}),
		setPreferenceCmd("manual-days N|off", "Use a fixed day count instead of the calculated one", func(s *state.Store, v string) error {
			if isOff(v) {
				return s.SetManualDays(nil)
			}
			days, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid day count %q", v)
			}
			return s.SetManualDays(&days)
		}),
		setPreferenceCmd("country CODE", "Select the holiday calendar country", func(s *state.Store, v string) error {
			return s.SetCountry(v)
		}),
		setPreferenceCmd("default-country CODE", "Set the country used when none is selected", func(s *state.Store, v string) error {
			return s.SetDefaultCountry(v)
		}),
		setPreferenceCmd("year YYYY", "Select the default year", func(s *state.Store, v string) error {
			year, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid year %q", v)
			}
			return s.SetYear(year)
		}),
		setPreferenceCmd("currency CODE", "Select the display currency (USD, EUR, JPY, GBP)", func(s *state.Store, v string) error {
			return s.SetCurrency(v)
		}),
		setPreferenceCmd("first-day sunday|monday", "Select the first column of the month grid", func(s *state.Store, v string) error {
			return s.SetFirstDayOfWeek(v)
		}),
	)

	return cmd
}

func setRateCmd() *cobra.Command {
	var hours float64

	cmd := &cobra.Command{
		Use:   "rate daily|hourly AMOUNT",
		Short: "Set the billing rate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}

			rc := revenue.RateConfig{Type: strings.ToLower(args[0])}
			switch rc.Type {
			case revenue.RateTypeDaily:
				rc.DailyRate = amount
			case revenue.RateTypeHourly:
				rc.HourlyRate = amount
				rc.HoursPerDay = hours
			}

			return withApp(func(a *app) error {
				if err := a.prefs.SetRate(rc); err != nil {
					return err
				}
				return printPreferences(cmd, a.prefs.Get())
			})
		},
	}

	cmd.Flags().Float64Var(&hours, "hours", revenue.DefaultHoursPerDay, "Hours per day for an hourly rate")

	return cmd
}

func setPreferenceCmd(use, short string, apply func(s *state.Store, value string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				if err := apply(a.prefs, args[0]); err != nil {
					return err
				}
				return printPreferences(cmd, a.prefs.Get())
			})
		},
	}
}

func printPreferences(cmd *cobra.Command, p state.Preferences) error {
	w := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	cur, err := revenue.GetCurrency(p.Currency)
	if err != nil {
		return err
	}
	rate, err := p.Rate.Rate()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Country:         %s (default %s)\n", p.ActiveCountry(), p.DefaultCountry)
	fmt.Fprintf(w, "Year:            %d\n", p.Year)
	fmt.Fprintf(w, "Rate:            %s\n", cur.Format(rate.DayValue())+"/day")
	fmt.Fprintf(w, "Currency:        %s (%s)\n", cur.Code, cur.Name)
	fmt.Fprintf(w, "First day:       %s\n", p.FirstWeekday())
	if p.ContributionPercent != nil {
		fmt.Fprintf(w, "Contribution:    %g%%\n", *p.ContributionPercent)
	} else {
		fmt.Fprintln(w, "Contribution:    off")
	}
	if p.ManualDays != nil {
		fmt.Fprintf(w, "Manual days:     %d\n", *p.ManualDays)
	} else {
		fmt.Fprintln(w, "Manual days:     off")
	}
	return nil
}

func isOff(v string) bool {
	switch strings.ToLower(v) {
	case "off", "none", "clear":
		return true
	}
	return false
}
