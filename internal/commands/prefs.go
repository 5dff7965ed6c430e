package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/assettrack/assettrack/internal/activity"
	"github.com/assettrack/assettrack/internal/id"
)

func newPrefsCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change saved preferences",
	}
	cmd.AddCommand(newDarkModeCommand(dir))
	return cmd
}

func newDarkModeCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:       "dark-mode [on|off]",
		Short:     "Show or set the dark color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dir, cmd.ErrOrStderr(), func(a *app) error {
				out := cmd.OutOrStdout()
				if len(args) == 0 {
					on, err := a.sess.DarkMode()
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "dark-mode: %s\n", onOff(on))
					return nil
				}

				var on bool
				switch strings.ToLower(args[0]) {
				case "on", "true":
					on = true
				case "off", "false":
				default:
					return fmt.Errorf("invalid value %q (want on or off)", args[0])
				}
				if err := a.sess.SetDarkMode(on); err != nil {
					return err
				}
				fmt.Fprintf(out, "dark-mode: %s\n", onOff(on))
				return nil
			})
		},
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func newLogCommand(dir *string) *cobra.Command {
	var tail int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent status messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dir, cmd.ErrOrStderr(), func(a *app) error {
				entries, err := a.log.Entries()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No activity.")
					return nil
				}
				for _, e := range activity.Tail(entries, tail) {
					line := fmt.Sprintf("%s  %-7s  %-6s  %s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Level, e.Action, e.Message)
					if e.RecordID != "" {
						line += "  [" + id.Short(e.RecordID) + "]"
					}
					fmt.Fprintln(out, line)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&tail, "tail", 20, "number of entries to show, 0 for all")

	return cmd
}
