// Package assetcsv reads and writes the asset CSV exchange format.
//
// Files start with a UTF-8 byte order mark and a header line, then hold one
// record per line: date, source name, amount, currency. Reading is lenient:
// bad lines become warnings and the rest of the file still imports.
package assetcsv

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/assettrack/assettrack/internal/model"
	"github.com/assettrack/assettrack/internal/validate"
)

// Header is the header line written on export.
const Header = "日期,來源,金額,計價幣種"

// BOM is the UTF-8 byte order mark written before the header.
const BOM = "\uFEFF"

const (
	numFields   = 4
	colDate     = 0
	colName     = 1
	colAmount   = 2
	colCurrency = 3

	// maxSummary is how many warnings an ImportError message lists.
	maxSummary = 3
)

// Delimiters.
const (
	Comma = ','
	Tab   = '\t'
)

// ErrNoData is returned when the input has no data line after the header.
var ErrNoData = errors.New("not enough CSV lines")

// LineError is a problem with one data line. The header is line 1.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// ImportError is returned when no record survived parsing.
type ImportError struct {
	Warnings []error
}

func (e *ImportError) Error() string {
	if len(e.Warnings) == 0 {
		return "no valid asset records"
	}
	shown := e.Warnings
	if len(shown) > maxSummary {
		shown = shown[:maxSummary]
	}
	msgs := make([]string, len(shown))
	for i, w := range shown {
		msgs[i] = w.Error()
	}
	return "no valid asset records: " + strings.Join(msgs, "; ")
}

// Result holds the records parsed from a file and the lines that were skipped.
// Records have no ID yet.
type Result struct {
	Records  []model.Asset
	Warnings []error
}

// Read parses asset CSV from r.
func Read(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("reading asset CSV: %w", err)
	}
	return Decode(data)
}

// Decode parses asset CSV content. The delimiter is a tab when the first data
// line contains one, otherwise a comma.
func Decode(data []byte) (Result, error) {
	content := strings.TrimPrefix(string(data), BOM)

	var lines []string
	for _, l := range strings.Split(content, "\n") {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 2 {
		return Result{}, fmt.Errorf("%w: found %d", ErrNoData, len(lines))
	}

	delim := rune(Comma)
	if strings.ContainsRune(lines[1], Tab) {
		delim = Tab
	}

	var res Result
	for i, line := range lines[1:] {
		lineNo := i + 2
		a, err := decodeLine(line, delim)
		if err != nil {
			res.Warnings = append(res.Warnings, &LineError{Line: lineNo, Err: err})
			continue
		}
		res.Records = append(res.Records, a)
	}

	if len(res.Records) == 0 {
		return res, &ImportError{Warnings: res.Warnings}
	}
	return res, nil
}

func decodeLine(line string, delim rune) (model.Asset, error) {
	return UnmarshalRow(SplitLine(line, delim))
}

// SplitLine splits one line into trimmed fields. A double quote toggles
// quoted mode and is dropped; delimiters inside quotes are literal. Inside
// quotes a doubled "" is a literal quote, matching what MarshalRow writes.
//
//	2025-01-15,"Bin"ance ,1,USDT -> [2025-01-15 Binance 1 USDT]
func SplitLine(line string, delim rune) []string {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"' && inQuotes && i+1 < len(runes) && runes[i+1] == '"':
			field.WriteRune('"')
			i++
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(field.String()))
}

// UnmarshalRow validates one row of split fields. Extra fields are ignored.
func UnmarshalRow(fields []string) (model.Asset, error) {
	if len(fields) < numFields {
		return model.Asset{}, fmt.Errorf("expected %d fields, got %d", numFields, len(fields))
	}
	return validate.Build(model.Draft{
		Date:     fields[colDate],
		Name:     fields[colName],
		Amount:   fields[colAmount],
		Currency: fields[colCurrency],
	})
}

// MarshalRow renders one record as a line without its terminator.
// The name is always quoted.
func MarshalRow(a model.Asset, delim rune) string {
	row := make([]string, numFields)
	row[colDate] = a.Date.String()
	row[colName] = `"` + strings.ReplaceAll(a.Name, `"`, `""`) + `"`
	row[colAmount] = a.Amount.String()
	row[colCurrency] = a.Currency
	return strings.Join(row, string(delim))
}

// Encode renders records as comma-separated asset CSV.
func Encode(records []model.Asset) []byte {
	return EncodeDelim(records, Comma)
}

// EncodeDelim renders records with the given delimiter. Lines are joined by
// "\n" with no trailing newline.
func EncodeDelim(records []model.Asset, delim rune) []byte {
	var b strings.Builder
	b.WriteString(BOM)
	b.WriteString(strings.ReplaceAll(Header, ",", string(delim)))
	for _, a := range records {
		b.WriteByte('\n')
		b.WriteString(MarshalRow(a, delim))
	}
	return []byte(b.String())
}

// Write writes records as comma-separated asset CSV to w.
func Write(w io.Writer, records []model.Asset) error {
	if _, err := w.Write(Encode(records)); err != nil {
		return fmt.Errorf("writing asset CSV: %w", err)
	}
	return nil
}

// ParseDelimiter reads a delimiter name: "comma", "tab", "," or a literal tab.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "comma", ",":
		return Comma, nil
	case "tab", "\t", `\t`:
		return Tab, nil
	}
	return 0, fmt.Errorf("unknown delimiter %q (want comma or tab)", s)
}
