// Package session owns the working state of one user session: the record
// collection, the table's filter and sort state, and where changes are saved.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/assettrack/assettrack/internal/activity"
	"github.com/assettrack/assettrack/internal/day"
	"github.com/assettrack/assettrack/internal/exporter"
	"github.com/assettrack/assettrack/internal/filter"
	"github.com/assettrack/assettrack/internal/id"
	"github.com/assettrack/assettrack/internal/importer"
	"github.com/assettrack/assettrack/internal/model"
	"github.com/assettrack/assettrack/internal/sorter"
	"github.com/assettrack/assettrack/internal/store"
	"github.com/assettrack/assettrack/internal/validate"
)

// Storage persists the record list and the display preference.
type Storage interface {
	LoadRecords() ([]model.Asset, error)
	SaveRecords(records []model.Asset) error
	DarkMode() (bool, error)
	SetDarkMode(on bool) error
}

// Recorder receives the status message of every operation.
type Recorder interface {
	Record(level activity.Level, action, message, recordID string) error
}

// ErrAmbiguousID is returned when a short ID matches more than one record.
var ErrAmbiguousID = errors.New("ambiguous record ID")

// Session is the explicit application context. It is not safe for
// concurrent use.
type Session struct {
	Filters filter.State
	Sort    sorter.State

	store    *store.Store
	storage  Storage
	activity Recorder
	parsers  *importer.Registry
	logger   *slog.Logger
}

// Open loads the saved records and starts a session with default view state.
// A nil recorder discards status messages.
func Open(storage Storage, rec Recorder, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	records, err := storage.LoadRecords()
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	logger.Debug("session opened", slog.Int("records", len(records)))
	return &Session{
		store:    store.New(records),
		storage:  storage,
		activity: rec,
		parsers:  importer.DefaultRegistry(),
		logger:   logger,
	}, nil
}

// Records returns every record in insertion order.
func (s *Session) Records() []model.Asset {
	return s.store.All()
}

// Len returns the number of records.
func (s *Session) Len() int {
	return s.store.Len()
}

// Sources returns the distinct source names, sorted, for input suggestions.
func (s *Session) Sources() []string {
	return s.store.Sources()
}

// View returns the table rows: records passed through the filters, then sorted.
func (s *Session) View() []model.Asset {
	return sorter.Apply(filter.Apply(s.store.All(), s.Filters), s.Sort)
}

// Get returns a record by full or short ID.
func (s *Session) Get(ref string) (model.Asset, error) {
	recordID, err := s.ResolveID(ref)
	if err != nil {
		return model.Asset{}, err
	}
	a, _ := s.store.Get(recordID)
	return a, nil
}

// ResolveID expands a full ID, in any letter case, or a unique ID prefix to
// a full ID.
func (s *Session) ResolveID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty record ID: %w", store.ErrNotFound)
	}
	if canonical, err := id.Parse(ref); err == nil {
		ref = canonical
	}
	if _, ok := s.store.Get(ref); ok {
		return ref, nil
	}

	var match string
	for _, a := range s.store.All() {
		if strings.HasPrefix(a.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("%q: %w", ref, ErrAmbiguousID)
			}
			match = a.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%q: %w", ref, store.ErrNotFound)
	}
	return match, nil
}

// Add validates a draft and appends it as a new record.
func (s *Session) Add(d model.Draft) (model.Asset, error) {
	a, err := validate.Build(d)
	if err != nil {
		s.record(activity.Error, "add", err.Error(), "")
		return model.Asset{}, err
	}

	prev := s.store.All()
	a = s.store.Add(a)
	if err := s.save(prev); err != nil {
		return model.Asset{}, err
	}
	s.logger.Info("asset added", slog.String("id", a.ID), slog.String("name", a.Name))
	s.record(activity.Success, "add", "asset added", a.ID)
	return a, nil
}

// Edit replaces the record ref with a validated draft, keeping its ID.
func (s *Session) Edit(ref string, d model.Draft) (model.Asset, error) {
	recordID, err := s.ResolveID(ref)
	if err != nil {
		s.record(activity.Error, "edit", err.Error(), "")
		return model.Asset{}, err
	}
	a, err := validate.Build(d)
	if err != nil {
		s.record(activity.Error, "edit", err.Error(), recordID)
		return model.Asset{}, err
	}
	a.ID = recordID

	prev := s.store.All()
	if err := s.store.Update(a); err != nil {
		return model.Asset{}, err
	}
	if err := s.save(prev); err != nil {
		return model.Asset{}, err
	}
	s.logger.Info("asset updated", slog.String("id", a.ID))
	s.record(activity.Success, "edit", "asset updated", a.ID)
	return a, nil
}

// Delete removes the record ref.
func (s *Session) Delete(ref string) error {
	recordID, err := s.ResolveID(ref)
	if err != nil {
		s.record(activity.Error, "delete", err.Error(), "")
		return err
	}

	prev := s.store.All()
	if err := s.store.Delete(recordID); err != nil {
		return err
	}
	if err := s.save(prev); err != nil {
		return err
	}
	s.logger.Info("asset deleted", slog.String("id", recordID))
	s.record(activity.Success, "delete", "asset deleted", recordID)
	return nil
}

// ImportResult reports what an import did.
type ImportResult struct {
	Count    int
	Format   string
	Warnings []error
}

// Import parses a file and, when at least one record is valid, replaces the
// whole collection with its records under fresh IDs.
func (s *Session) Import(fileName string, data []byte) (ImportResult, error) {
	res, err := s.parsers.Parse(fileName, data)
	if err != nil {
		s.record(activity.Error, "import", "import failed: "+err.Error(), "")
		return ImportResult{Warnings: res.Warnings}, fmt.Errorf("importing %s: %w", fileName, err)
	}

	prev := s.store.All()
	s.store.Replace(res.Records)
	if err := s.save(prev); err != nil {
		return ImportResult{}, err
	}

	out := ImportResult{Count: len(res.Records), Format: importer.Detect(fileName), Warnings: res.Warnings}
	for _, w := range res.Warnings {
		s.logger.Warn("import line skipped", slog.String("file", fileName), slog.String("warning", w.Error()))
	}
	s.logger.Info("records imported", slog.String("file", fileName), slog.Int("count", out.Count))
	s.record(activity.Success, "import", fmt.Sprintf("imported %d records", out.Count), "")
	return out, nil
}

// Export writes every record to dir as asset_data_<today>.csv.
func (s *Session) Export(dir string, today day.Date, delim rune) (string, error) {
	path, err := exporter.WriteCSV(dir, s.store.All(), today, delim)
	return s.exported(path, err)
}

// ExportXLSX writes every record to dir as asset_data_<today>.xlsx.
func (s *Session) ExportXLSX(dir string, today day.Date) (string, error) {
	path, err := exporter.WriteXLSX(dir, s.store.All(), today)
	return s.exported(path, err)
}

func (s *Session) exported(path string, err error) (string, error) {
	if err != nil {
		s.record(activity.Error, "export", err.Error(), "")
		return "", err
	}
	s.logger.Info("records exported", slog.String("path", path))
	s.record(activity.Success, "export", "data exported to "+path, "")
	return path, nil
}

// ClearAll removes every record and resets the filters.
func (s *Session) ClearAll() error {
	prev := s.store.All()
	s.store.Clear()
	if err := s.save(prev); err != nil {
		return err
	}
	s.ClearFilters()
	s.logger.Info("all records cleared", slog.Int("count", len(prev)))
	s.record(activity.Success, "clear", "all data cleared", "")
	return nil
}

// ClearFilters resets every filter axis.
func (s *Session) ClearFilters() {
	s.Filters.Clear()
}

// ToggleSort advances the sort state for a column header.
func (s *Session) ToggleSort(c model.Column) {
	s.Sort.Toggle(c)
}

// LoadSample fills an empty collection with demo data around today.
// It reports false and changes nothing when records already exist.
func (s *Session) LoadSample(today day.Date) (bool, error) {
	if s.store.Len() > 0 {
		return false, nil
	}
	prev := s.store.All()
	s.store.Replace(Sample(today))
	if err := s.save(prev); err != nil {
		return false, err
	}
	s.record(activity.Success, "sample", "sample data loaded", "")
	return true, nil
}

// DarkMode returns the saved display preference.
func (s *Session) DarkMode() (bool, error) {
	return s.storage.DarkMode()
}

// SetDarkMode saves the display preference.
func (s *Session) SetDarkMode(on bool) error {
	if err := s.storage.SetDarkMode(on); err != nil {
		return fmt.Errorf("saving dark mode: %w", err)
	}
	return nil
}

// save persists the collection, restoring prev in memory if that fails.
func (s *Session) save(prev []model.Asset) error {
	if err := s.storage.SaveRecords(s.store.All()); err != nil {
		s.store = store.New(prev)
		s.logger.Error("saving records failed", slog.String("error", err.Error()))
		return fmt.Errorf("saving records: %w", err)
	}
	return nil
}

func (s *Session) record(level activity.Level, action, message, recordID string) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(level, action, message, recordID); err != nil {
		s.logger.Warn("activity log write failed", slog.String("error", err.Error()))
	}
}
