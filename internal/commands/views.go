package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/assettrack/assettrack/internal/aggregate"
	"github.com/assettrack/assettrack/internal/calendar"
	"github.com/assettrack/assettrack/internal/change"
	"github.com/assettrack/assettrack/internal/day"
	"github.com/assettrack/assettrack/internal/id"
	"github.com/assettrack/assettrack/internal/model"
	"github.com/assettrack/assettrack/internal/render"
)

func newChangeCommand(dir *string) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "change [id]",
		Short: "Show the day-over-day change of a record or of a day's total",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dir, cmd.ErrOrStderr(), func(a *app) error {
				out := cmd.OutOrStdout()
				records := a.sess.Records()

				if len(args) == 1 {
					target, err := a.sess.Get(args[0])
					if err != nil {
						return err
					}
					c, ok := change.Daily(records, target)
					label := fmt.Sprintf("%s %s %s (%s)", target.Date, target.Name, target.Currency, id.Short(target.ID))
					if !ok {
						fmt.Fprintf(out, "%s: no record the day before\n", label)
						return nil
					}
					fmt.Fprintf(out, "%s: %s\n", label, a.theme.Change(&c))
					return nil
				}

				d, ok, err := dateOrLatest(date, records)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "No records.")
					return nil
				}
				c, ok := change.AggregateDaily(records, d)
				if !ok {
					fmt.Fprintf(out, "%s: no records the day before\n", d)
					return nil
				}
				fmt.Fprintf(out, "%s: %s -> %s, %s\n", d, render.Amount(c.Previous), render.Amount(c.Current), a.theme.Change(&c))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to compare with the day before (default latest recorded day)")

	return cmd
}

func newCalendarCommand(dir *string) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "calendar [YYYY-MM]",
		Short: "Show a month of daily totals and changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dir, cmd.ErrOrStderr(), func(a *app) error {
				month := today().MonthStart()
				if len(args) == 1 {
					m, err := parseMonth(args[0])
					if err != nil {
						return err
					}
					month = m
				}

				if !cmd.Flags().Changed("mode") {
					mode = a.cfg.Display.CalendarMode
				}
				dm, err := calendar.ParseMode(mode)
				if err != nil {
					return err
				}

				cells := calendar.Month(a.sess.Records(), month.Year(), month.Month())
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s %d\n", month.Month(), month.Year())
				fmt.Fprintln(out, a.theme.Calendar(cells, dm))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "cell content: total, change or both (default from config)")

	return cmd
}

func parseMonth(s string) (day.Date, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return day.Date{}, fmt.Errorf("invalid month %q (want YYYY-MM)", s)
	}
	return day.New(t.Year(), t.Month(), 1), nil
}

func newDayCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "day [date]",
		Short: "Show the records of one day with their changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := today()
			if len(args) == 1 {
				parsed, err := day.Parse(args[0])
				if err != nil {
					return err
				}
				d = parsed
			}
			return withApp(*dir, cmd.ErrOrStderr(), func(a *app) error {
				details := calendar.Details(a.sess.Records(), d)
				out := cmd.OutOrStdout()
				if !details.HasData() {
					fmt.Fprintf(out, "%s: no records\n", d)
					return nil
				}
				fmt.Fprintln(out, a.theme.Day(details))
				return nil
			})
		},
	}
}

func newChartCommand(dir *string) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Show daily totals over time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dir, cmd.ErrOrStderr(), func(a *app) error {
				if !cmd.Flags().Changed("range") {
					days = a.cfg.Display.ChartRangeDays
				}
				series := aggregate.Series(aggregate.Window(a.sess.Records(), days, today()))
				out := cmd.OutOrStdout()
				if series.Len() == 0 {
					fmt.Fprintln(out, "No records in range.")
					return nil
				}
				fmt.Fprintln(out, a.theme.Series(series))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "range", 0, "days back from today, 0 for all (default from config)")

	return cmd
}

func newSnapshotCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Show per-source totals on the latest recorded day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dir, cmd.ErrOrStderr(), func(a *app) error {
				snap, ok := aggregate.LatestSnapshot(a.sess.Records())
				out := cmd.OutOrStdout()
				if !ok {
					fmt.Fprintln(out, "No records.")
					return nil
				}
				fmt.Fprintf(out, "Snapshot %s\n", snap.Date)
				fmt.Fprintln(out, a.theme.Snapshot(snap))
				return nil
			})
		},
	}
}

func newTotalCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "total",
		Short: "Print total assets on the latest recorded day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dir, cmd.ErrOrStderr(), func(a *app) error {
				fmt.Fprintln(cmd.OutOrStdout(), render.Amount(aggregate.TotalAssets(a.sess.Records())))
				return nil
			})
		},
	}
}

// dateOrLatest parses s, or falls back to the latest recorded date.
func dateOrLatest(s string, records []model.Asset) (day.Date, bool, error) {
	if s != "" {
		d, err := day.Parse(s)
		return d, err == nil, err
	}
	d, ok := aggregate.LatestDate(records)
	return d, ok, nil
}
