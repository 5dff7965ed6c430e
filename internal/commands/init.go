package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/assettrack/assettrack/internal/config"
)

func newInitCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := *dir
			if len(args) > 0 {
				target = args[0]
			}

			absDir, err := filepath.Abs(target)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), cmd.ErrOrStderr(), absDir)
		},
	}
	return cmd
}

func runInit(out, stderr io.Writer, dir string) error {
	cfg := config.Default()

	dirs := []string{
		"logs",
		cfg.Export.Dir,
		cfg.Import.Dir,
		filepath.Join(cfg.Import.Dir, "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write .gitignore.
	gitignore := "*.db\n.env\nexports/\nlogs/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Opening creates the database and its table.
	if err := withApp(dir, stderr, func(*app) error { return nil }); err != nil {
		return err
	}

	fmt.Fprintf(out, "Initialized assettrack data directory at %s\n", dir)
	return nil
}
