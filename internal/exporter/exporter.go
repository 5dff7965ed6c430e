// Package exporter writes the record collection to dated CSV and XLSX files.
package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/assettrack/assettrack/internal/assetcsv"
	"github.com/assettrack/assettrack/internal/day"
	"github.com/assettrack/assettrack/internal/model"
	"github.com/assettrack/assettrack/internal/validate"
)

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = validate.ValidationError{Field: "records", Description: "no data to export"}

// SheetName is the worksheet holding the records in an XLSX export.
const SheetName = "Assets"

var xlsxHeader = []any{"日期", "來源", "金額", "計價幣種"}

// FileName returns the export file name for today, e.g. asset_data_2025-08-20.csv.
func FileName(today day.Date, ext string) string {
	return fmt.Sprintf("asset_data_%s.%s", today, ext)
}

// CSV encodes records as asset CSV with the given delimiter.
func CSV(records []model.Asset, delim rune) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	return assetcsv.EncodeDelim(records, delim), nil
}

// WriteCSV writes records to dir/asset_data_<today>.csv and returns the path.
func WriteCSV(dir string, records []model.Asset, today day.Date, delim rune) (string, error) {
	data, err := CSV(records, delim)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(today, "csv"))
	if err := writeFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// XLSX writes records as a single-sheet workbook. Amounts are numeric cells.
func XLSX(w io.Writer, records []model.Asset) error {
	if len(records) == 0 {
		return ErrEmpty
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &xlsxHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, a := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{a.Date.String(), a.Name, a.Amount.InexactFloat64(), a.Currency}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// WriteXLSX writes records to dir/asset_data_<today>.xlsx and returns the path.
func WriteXLSX(dir string, records []model.Asset, today day.Date) (string, error) {
	if len(records) == 0 {
		return "", ErrEmpty
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	path := filepath.Join(dir, FileName(today, "xlsx"))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer out.Close()

	if err := XLSX(out, records); err != nil {
		return "", err
	}
	return path, out.Close()
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
