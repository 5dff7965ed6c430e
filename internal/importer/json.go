package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/assettrack/assettrack/internal/assetcsv"
	"github.com/assettrack/assettrack/internal/model"
	"github.com/assettrack/assettrack/internal/validate"
)

// ErrNotArray is returned when a JSON import is not a list of records.
var ErrNotArray = errors.New("invalid data format: want a JSON array of records")

// ItemError is a problem with one element of a JSON import, counted from 1.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// JSONParser reads a JSON array of records, such as a saved data dump.
// IDs in the file are ignored. Every element is validated like a CSV row.
type JSONParser struct{}

// Format returns the parser name.
func (p *JSONParser) Format() string { return "json" }

// jsonRecord accepts the amount as a number or a string.
type jsonRecord struct {
	Date     string          `json:"date"`
	Name     string          `json:"name"`
	Amount   json.RawMessage `json:"amount"`
	Currency string          `json:"currency"`
}

// Parse reads the array, skipping invalid elements as warnings.
func (p *JSONParser) Parse(r io.Reader) (assetcsv.Result, error) {
	var items []json.RawMessage
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return assetcsv.Result{}, ErrNotArray
		}
		return assetcsv.Result{}, fmt.Errorf("parsing JSON import: %w", err)
	}

	var res assetcsv.Result
	for i, raw := range items {
		a, err := decodeItem(raw)
		if err != nil {
			res.Warnings = append(res.Warnings, &ItemError{Index: i + 1, Err: err})
			continue
		}
		res.Records = append(res.Records, a)
	}

	if len(res.Records) == 0 {
		return res, &assetcsv.ImportError{Warnings: res.Warnings}
	}
	return res, nil
}

func decodeItem(raw json.RawMessage) (model.Asset, error) {
	var rec jsonRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.Asset{}, fmt.Errorf("not a record: %w", err)
	}
	amount, err := amountText(rec.Amount)
	if err != nil {
		return model.Asset{}, err
	}
	return validate.Build(model.Draft{
		Date:     rec.Date,
		Name:     rec.Name,
		Amount:   amount,
		Currency: rec.Currency,
	})
}

func amountText(raw json.RawMessage) (string, error) {
	text := strings.TrimSpace(string(raw))
	switch {
	case text == "" || text == "null":
		return "", nil
	case strings.HasPrefix(text, `"`):
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("parsing amount: %w", err)
		}
		return s, nil
	case strings.HasPrefix(text, "{"), strings.HasPrefix(text, "["), text == "true", text == "false":
		return "", fmt.Errorf("invalid amount %s", text)
	}
	return text, nil
}
