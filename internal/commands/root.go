package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/assettrack/assettrack/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var dir string

	rootCmd := &cobra.Command{
		Use:     "assettrack",
		Short:   "Track dated asset balances across sources and currencies",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dir, "dir", ".", "data directory")

	rootCmd.AddCommand(
		newInitCommand(&dir),
		newAddCommand(&dir),
		newEditCommand(&dir),
		newDeleteCommand(&dir),
		newListCommand(&dir),
		newOptionsCommand(&dir),
		newChangeCommand(&dir),
		newCalendarCommand(&dir),
		newDayCommand(&dir),
		newChartCommand(&dir),
		newSnapshotCommand(&dir),
		newTotalCommand(&dir),
		newImportCommand(&dir),
		newExportCommand(&dir),
		newClearCommand(&dir),
		newSampleCommand(&dir),
		newPrefsCommand(&dir),
		newLogCommand(&dir),
	)

	return rootCmd
}
