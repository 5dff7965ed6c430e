package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/assettrack/assettrack/internal/assetcsv"
	"github.com/assettrack/assettrack/internal/importer"
)

func newImportCommand(dir *string) *cobra.Command {
	var scan bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Replace all records with the contents of a CSV or JSON file",
		Long: `Replace all records with the contents of a CSV or JSON file.

A file name that does not exist as given is looked up in the import
directory, and moved to import/processed after a successful import.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !scan && len(args) == 0 {
				return fmt.Errorf("a file to import is required (or --scan to list pending files)")
			}
			return withApp(*dir, cmd.ErrOrStderr(), func(a *app) error {
				if scan {
					return runScan(cmd.OutOrStdout(), a.cfg.Import.Dir)
				}
				return runImport(cmd.OutOrStdout(), a, args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&scan, "scan", false, "list files waiting in the import directory")

	return cmd
}

func runScan(out io.Writer, importDir string) error {
	files, err := importer.Scan(importDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		formats := importer.DefaultRegistry().Formats()
		fmt.Fprintf(out, "No files to import in %s (looking for %s)\n", importDir, strings.Join(formats, ", "))
		return nil
	}
	for _, f := range files {
		fmt.Fprintf(out, "%s  %s  %s\n", f.Name, f.Format, humanize.Bytes(uint64(f.Size)))
	}
	return nil
}

func runImport(out io.Writer, a *app, name string) error {
	path := name
	fromImportDir := false
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		path = filepath.Join(a.cfg.Import.Dir, name)
		fromImportDir = true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	res, err := a.sess.Import(filepath.Base(path), data)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported %d records from %s\n", res.Count, filepath.Base(path))
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "  skipped %v\n", w)
	}

	if fromImportDir {
		if err := importer.MarkProcessed(a.cfg.Import.Dir, filepath.Base(path)); err != nil {
			return err
		}
	}
	return nil
}

func newExportCommand(dir *string) *cobra.Command {
	var (
		xlsx      bool
		outDir    string
		delimiter string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all records to asset_data_<date>.csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dir, cmd.ErrOrStderr(), func(a *app) error {
				target := a.cfg.Export.Dir
				if outDir != "" {
					target = outDir
				}

				var (
					path string
					err  error
				)
				if xlsx {
					path, err = a.sess.ExportXLSX(target, today())
				} else {
					if !cmd.Flags().Changed("delimiter") {
						delimiter = a.cfg.Export.Delimiter
					}
					delim, perr := assetcsv.ParseDelimiter(delimiter)
					if perr != nil {
						return perr
					}
					path, err = a.sess.Export(target, today(), delim)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", a.sess.Len(), path)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&xlsx, "xlsx", false, "write an Excel workbook instead of CSV")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from config)")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "CSV delimiter: comma or tab (default from config)")

	return cmd
}

func newClearCommand(dir *string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dir, cmd.ErrOrStderr(), func(a *app) error {
				n := a.sess.Len()
				if !yes {
					return fmt.Errorf("refusing to delete %d records without --yes", n)
				}
				if err := a.sess.ClearAll(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d records\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all records")

	return cmd
}

func newSampleCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Load demo records when there are none",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dir, cmd.ErrOrStderr(), func(a *app) error {
				loaded, err := a.sess.LoadSample(today())
				if err != nil {
					return err
				}
				if !loaded {
					fmt.Fprintln(cmd.OutOrStdout(), "Records already exist; sample data not loaded.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d sample records\n", a.sess.Len())
				return nil
			})
		},
	}
}
