package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/username/workdays/internal/calendar"
	"github.com/username/workdays/internal/output"
	"github.com/username/workdays/pkg/dateutil"
)

func countCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print the number of workable days between two dates (inclusive)",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}
			end, err := parseDateFlag("to", to)
			if err != nil {
				return err
			}

			return withApp(func(a *app) error {
				s, err := a.manager.Summary(cmd.Context(), country, start, end)
				if err != nil {
					return err
				}
				if jsonOutput {
					return output.PrintSummaryJSON(cmd.OutOrStdout(), s)
				}
				fmt.Fprintln(cmd.OutOrStdout(), s.CalculatedDays)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func summaryCmd() *cobra.Command {
	var from, to string
	var year, month int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Workable days and revenue for a month or a date range",
		Long:  "Without --from/--to the summary covers a whole month (--month, --year; default: the current month)",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}
			end, err := parseDateFlag("to", to)
			if err != nil {
				return err
			}
			if start.IsZero() != end.IsZero() {
				return fmt.Errorf("--from and --to must be given together")
			}

			return withApp(func(a *app) error {
				if start.IsZero() {
					y, m, err := resolveMonth(a, year, month)
					if err != nil {
						return err
					}
					start, end = dateutil.StartOfMonth(y, m), dateutil.EndOfMonth(y, m)
				}

				s, err := a.manager.Summary(cmd.Context(), country, start, end)
				if err != nil {
					return err
				}
				if jsonOutput {
					return output.PrintSummaryJSON(cmd.OutOrStdout(), s)
				}
				output.PrintSummaryTable(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&year, "year", 0, "Year (default: saved year)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (default: current month)")

	return cmd
}

func monthCmd() *cobra.Command {
	var from, to string
	var year, month int
	var list bool

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show a month as a calendar grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}
			end, err := parseDateFlag("to", to)
			if err != nil {
				return err
			}

			return withApp(func(a *app) error {
				y, m, err := resolveMonth(a, year, month)
				if err != nil {
					return err
				}

				agenda, err := a.manager.MonthAgenda(cmd.Context(), country, y, m, start, end)
				if err != nil {
					return err
				}
				if jsonOutput {
					return output.PrintMonthJSON(cmd.OutOrStdout(), agenda)
				}
				output.PrintMonthGrid(cmd.OutOrStdout(), agenda)
				if list {
					fmt.Fprintln(cmd.OutOrStdout())
					output.PrintDayList(cmd.OutOrStdout(), agenda)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: saved year)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (default: current month)")
	cmd.Flags().StringVar(&from, "from", "", "Highlight days from this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Highlight days up to this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&list, "list", false, "Also print one row per day")

	return cmd
}

func yearCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "year",
		Short: "Workable days of every month of a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				y := resolveYear(a, year)
				overview, err := a.manager.YearOverview(cmd.Context(), country, y)
				if err != nil {
					return err
				}
				if jsonOutput {
					return output.PrintYearJSON(cmd.OutOrStdout(), overview)
				}
				output.PrintYearTable(cmd.OutOrStdout(), overview)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: saved year)")

	return cmd
}

func holidaysCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List the public holidays of a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				y := resolveYear(a, year)
				c := a.prefs.Get().ActiveCountry()
				if country != "" {
					c = calendar.NormalizeCountry(country)
				}

				cal := a.manager.HolidayCalendar(cmd.Context(), c, y)
				if jsonOutput {
					return output.PrintHolidaysJSON(cmd.OutOrStdout(), c, y, cal)
				}
				output.PrintHolidaysTable(cmd.OutOrStdout(), c, y, cal)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: saved year)")

	return cmd
}

func countriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List countries and years with bundled holiday data",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			for _, c := range calendar.AvailableCountries() {
				fmt.Fprintf(w, "%-8s %s\n", c.Code, c.Name)
			}
			fmt.Fprintf(w, "\nBundled years: %v\n", calendar.AvailableYears())
		},
	}
}

// resolveYear falls back to the saved year, then the current year
func resolveYear(a *app, year int) int {
	if year != 0 {
		return year
	}
	if saved := a.prefs.Get().Year; saved != 0 {
		return saved
	}
	return dateutil.Today().Year()
}

func resolveMonth(a *app, year, month int) (int, time.Month, error) {
	if month == 0 {
		month = int(dateutil.Today().Month())
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("--month must be between 1 and 12, got %d", month)
	}
	return resolveYear(a, year), time.Month(month), nil
}
