package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/assettrack/assettrack/internal/filter"
	"github.com/assettrack/assettrack/internal/id"
	"github.com/assettrack/assettrack/internal/model"
	"github.com/assettrack/assettrack/internal/render"
	"github.com/assettrack/assettrack/internal/sorter"
	"github.com/assettrack/assettrack/internal/validate"
)

func newAddCommand(dir *string) *cobra.Command {
	var d model.Draft

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an asset balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if d.Date == "" {
				d.Date = today().String()
			}
			return withApp(*dir, cmd.ErrOrStderr(), func(a *app) error {
				rec, err := a.sess.Add(d)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s %s %s %s\n",
					id.Short(rec.ID), rec.Date, rec.Name, render.Amount(rec.Amount), rec.Currency)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&d.Date, "date", "", "date as YYYY-MM-DD or YYYY/M/D (default today)")
	cmd.Flags().StringVar(&d.Name, "name", "", "source name, e.g. Binance (required)")
	cmd.Flags().StringVar(&d.Amount, "amount", "", "amount, greater than zero (required)")
	cmd.Flags().StringVar(&d.Currency, "currency", "", "currency code, e.g. USDT (required)")
	_ = cmd.RegisterFlagCompletionFunc("name", sourceCompletion(dir))
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("currency")

	return cmd
}

func newEditCommand(dir *string) *cobra.Command {
	var d model.Draft

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a recorded balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dir, cmd.ErrOrStderr(), func(a *app) error {
				current, err := a.sess.Get(args[0])
				if err != nil {
					return err
				}

				// Unset flags keep the current value.
				merged := validate.FromAsset(current)
				flags := cmd.Flags()
				if flags.Changed("date") {
					merged.Date = d.Date
				}
				if flags.Changed("name") {
					merged.Name = d.Name
				}
				if flags.Changed("amount") {
					merged.Amount = d.Amount
				}
				if flags.Changed("currency") {
					merged.Currency = d.Currency
				}

				rec, err := a.sess.Edit(current.ID, merged)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s %s %s %s\n",
					id.Short(rec.ID), rec.Date, rec.Name, render.Amount(rec.Amount), rec.Currency)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&d.Date, "date", "", "new date")
	cmd.Flags().StringVar(&d.Name, "name", "", "new source name")
	cmd.Flags().StringVar(&d.Amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&d.Currency, "currency", "", "new currency")
	_ = cmd.RegisterFlagCompletionFunc("name", sourceCompletion(dir))

	return cmd
}

func newDeleteCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a recorded balance",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dir, cmd.ErrOrStderr(), func(a *app) error {
				recordID, err := a.sess.ResolveID(args[0])
				if err != nil {
					return err
				}
				if err := a.sess.Delete(recordID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id.Short(recordID))
				return nil
			})
		},
	}
}

// sourceCompletion suggests the source names already recorded.
func sourceCompletion(dir *string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var names []string
		err := withApp(*dir, io.Discard, func(a *app) error {
			names = a.sess.Sources()
			return nil
		})
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}

// viewFlags are the filter and sort flags shared by list and options.
type viewFlags struct {
	from, to   string
	min, max   string
	dates      []string
	sources    []string
	amounts    []string
	currencies []string
	sort       string
	order      string
}

func (v *viewFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&v.from, "from", "", "earliest date, inclusive")
	f.StringVar(&v.to, "to", "", "latest date, inclusive")
	f.StringVar(&v.min, "min", "", "smallest amount, inclusive")
	f.StringVar(&v.max, "max", "", "largest amount, inclusive")
	f.StringSliceVar(&v.dates, "date", nil, "only these dates")
	f.StringArrayVar(&v.sources, "source", nil, "only this source, repeatable")
	f.StringSliceVar(&v.amounts, "amount", nil, "only these amounts")
	f.StringArrayVar(&v.currencies, "currency", nil, "only this currency, repeatable")
	f.StringVar(&v.sort, "sort", "", "sort column: date, source, amount or currency")
	f.StringVar(&v.order, "order", "", "sort direction: asc or desc (default asc when --sort is set)")
}

func (v *viewFlags) apply(fs *filter.State, ss *sorter.State) error {
	if err := fs.SetDateRange(v.from, v.to); err != nil {
		return err
	}
	if err := fs.SetAmountRange(v.min, v.max); err != nil {
		return err
	}
	selections := []struct {
		col    model.Column
		values []string
	}{
		{model.ColumnDate, v.dates},
		{model.ColumnSource, v.sources},
		{model.ColumnAmount, v.amounts},
		{model.ColumnCurrency, v.currencies},
	}
	for _, s := range selections {
		if len(s.values) == 0 {
			continue
		}
		if err := fs.Select(s.col, s.values...); err != nil {
			return err
		}
	}

	col, err := sorter.ParseColumn(v.sort)
	if err != nil {
		return err
	}
	dir, err := sorter.ParseDirection(v.order)
	if err != nil {
		return err
	}
	if col != model.ColumnNone && dir == sorter.None {
		dir = sorter.Ascending
	}
	*ss = sorter.State{Column: col, Direction: dir}
	return nil
}

func newListCommand(dir *string) *cobra.Command {
	var v viewFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show recorded balances, filtered and sorted",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dir, cmd.ErrOrStderr(), func(a *app) error {
				if err := v.apply(&a.sess.Filters, &a.sess.Sort); err != nil {
					return err
				}
				rows := a.sess.View()
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, a.theme.Records(rows, a.sess.Filters, a.sess.Sort))
				fmt.Fprintf(out, "%d of %d records\n", len(rows), a.sess.Len())
				return nil
			})
		},
	}
	v.register(cmd)

	return cmd
}

func newOptionsCommand(dir *string) *cobra.Command {
	var v viewFlags
	var search string

	cmd := &cobra.Command{
		Use:   "options <column>",
		Short: "List the values a column can be filtered by",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := sorter.ParseColumn(args[0])
			if err != nil {
				return err
			}
			if col == model.ColumnNone {
				return fmt.Errorf("column is required")
			}
			return withApp(*dir, cmd.ErrOrStderr(), func(a *app) error {
				if err := v.apply(&a.sess.Filters, &a.sess.Sort); err != nil {
					return err
				}
				if search != "" {
					if err := a.sess.Filters.SetSearch(col, search); err != nil {
						return err
					}
				}

				values := filter.Options(a.sess.Records(), col, a.sess.Filters.Search(col))
				fmt.Fprint(cmd.OutOrStdout(), a.theme.Options(values, selectedSet(a.sess.Filters, col)))
				return nil
			})
		},
	}
	v.register(cmd)
	cmd.Flags().StringVar(&search, "search", "", "only values containing this text (source and currency)")

	return cmd
}

func selectedSet(fs filter.State, col model.Column) filter.Set {
	switch col {
	case model.ColumnDate:
		return fs.Date.Selected
	case model.ColumnSource:
		return fs.Source.Selected
	case model.ColumnAmount:
		return fs.Amount.Selected
	case model.ColumnCurrency:
		return fs.Currency.Selected
	}
	return nil
}
