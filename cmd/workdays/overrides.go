package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/username/workdays/internal/output"
	"github.com/username/workdays/internal/workdays"
	"github.com/username/workdays/pkg/dateutil"
)

func toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle YYYY-MM-DD...",
		Short: "Cycle a day through excluded, included and default",
		Long: `Each call advances the day one step:
  default workday   -> excluded
  default day off   -> included
  excluded          -> included
  included          -> default`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				for _, arg := range args {
					date, err := dateutil.ParseDate(arg)
					if err != nil {
						return err
					}

					day, err := a.manager.ToggleDay(cmd.Context(), country, date)
					if err != nil {
						return err
					}
					if jsonOutput {
						if err := output.PrintDayJSON(cmd.OutOrStdout(), day); err != nil {
							return err
						}
						continue
					}
					output.PrintToggleResult(cmd.OutOrStdout(), day)
				}
				return nil
			})
		},
	}
}

func clearMonthCmd() *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "clear-month",
		Short: "Remove every override of a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				y, m, err := resolveMonth(a, year, month)
				if err != nil {
					return err
				}

				removed, err := a.manager.ClearMonth(cmd.Context(), y, m)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d override(s) from %s %d\n", removed, m, y)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: saved year)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (default: current month)")

	return cmd
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent override changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				events, err := a.manager.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return output.PrintHistoryJSON(cmd.OutOrStdout(), events)
				}
				output.PrintHistoryTable(cmd.OutOrStdout(), events)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of changes to show")

	return cmd
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [FILE]",
		Short: "Write every override to a JSON or YAML file (stdout by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				overrides, err := a.manager.ExportOverrides(cmd.Context())
				if err != nil {
					return err
				}

				if len(args) == 0 {
					return encodeOverrides(cmd.OutOrStdout(), overrides, false)
				}

				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", args[0], err)
				}
				defer f.Close()

				if err := encodeOverrides(f, overrides, isYAML(args[0])); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d override(s) to %s\n", len(overrides), args[0])
				return nil
			})
		},
	}
}

func importCmd() *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the saved overrides with the contents of a JSON or YAML file",
		Long: `Replaces every saved override with the file contents.
With --month only that month is replaced and other months are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			imported, err := decodeOverrides(data, isYAML(args[0]))
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			return withApp(func(a *app) error {
				var y int
				var m time.Month
				if month != 0 {
					var err error
					if y, m, err = resolveMonth(a, year, month); err != nil {
						return err
					}
				}

				stored, err := a.manager.ImportOverrides(cmd.Context(), imported, y, m)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s; %d override(s) saved\n", args[0], stored)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year of --month (default: saved year)")
	cmd.Flags().IntVar(&month, "month", 0, "Only replace this month (1-12)")

	return cmd
}

// encodeOverrides writes the map as a date-sorted list
func encodeOverrides(w io.Writer, overrides workdays.Overrides, asYAML bool) error {
	list := make([]workdays.DayOverride, 0, len(overrides))
	for _, ov := range overrides {
		list = append(list, ov)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date < list[j].Date })

	if asYAML {
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(list)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}

func decodeOverrides(data []byte, asYAML bool) (workdays.Overrides, error) {
	var list []workdays.DayOverride
	var err error
	if asYAML {
		err = yaml.Unmarshal(data, &list)
	} else {
		err = json.Unmarshal(data, &list)
	}
	if err != nil {
		return nil, err
	}

	overrides := make(workdays.Overrides, len(list))
	for _, ov := range list {
		day, err := dateutil.ParseDate(ov.Date)
		if err != nil {
			return nil, err
		}
		ov.Date = dateutil.FormatISO(day)
		overrides[ov.Date] = ov
	}
	return overrides, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
