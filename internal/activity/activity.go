// Package activity keeps the status messages shown to the user after each
// operation as an append-only CSV log.
package activity

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Level is the kind of status message.
type Level string

const (
	Success Level = "success"
	Error   Level = "error"
	Info    Level = "info"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp time.Time
	Level     Level
	Action    string
	Message   string
	RecordID  string
}

// Header is the CSV header for activity.csv.
const Header = "timestamp,level,action,message,record_id"

const (
	numFields   = 5
	logDir      = "logs"
	logFile     = "logs/activity.csv"
	colTime     = 0
	colLevel    = 1
	colAction   = 2
	colMessage  = 3
	colRecordID = 4
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colLevel] = string(e.Level)
	row[colAction] = e.Action
	row[colMessage] = e.Message
	row[colRecordID] = e.RecordID
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}

	return Entry{
		Timestamp: ts,
		Level:     Level(record[colLevel]),
		Action:    record[colAction],
		Message:   record[colMessage],
		RecordID:  record[colRecordID],
	}, nil
}

// Log appends entries under a data directory.
type Log struct {
	dir string
	now func() time.Time
}

// New returns a Log writing to <dir>/logs/activity.csv.
func New(dir string) *Log {
	return &Log{dir: dir, now: time.Now}
}

// Record appends a single message stamped with the current time.
func (l *Log) Record(level Level, action, message, recordID string) error {
	return Append(l.dir, []Entry{{
		Timestamp: l.now().UTC().Truncate(time.Second),
		Level:     level,
		Action:    action,
		Message:   message,
		RecordID:  recordID,
	}})
}

// Entries returns everything logged so far.
func (l *Log) Entries() ([]Entry, error) {
	return Read(l.dir)
}

// Append writes entries to <dir>/logs/activity.csv, creating the file and header if needed.
func Append(dir string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Join(dir, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dir>/logs/activity.csv.
// Returns an empty slice if the file does not exist.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// Tail returns the last n entries, oldest first.
func Tail(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
