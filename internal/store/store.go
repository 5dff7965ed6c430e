package store

import (
	"errors"
	"fmt"
	"slices"

	"github.com/assettrack/assettrack/internal/id"
	"github.com/assettrack/assettrack/internal/model"
)

// ErrNotFound is returned when an edit or delete names an unknown record.
var ErrNotFound = errors.New("asset not found")

// Store is the in-memory, insertion-ordered collection of asset records.
// It is not safe for concurrent mutation; callers serialize writes.
type Store struct {
	assets []model.Asset
}

// New creates a Store holding a copy of assets. Records without an ID get one.
func New(assets []model.Asset) *Store {
	s := &Store{}
	for _, a := range assets {
		s.Add(a)
	}
	return s
}

// All returns a copy of every record in insertion order.
func (s *Store) All() []model.Asset {
	return slices.Clone(s.assets)
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.assets)
}

// Get returns a record by ID.
func (s *Store) Get(recordID string) (model.Asset, bool) {
	i := s.indexOf(recordID)
	if i < 0 {
		return model.Asset{}, false
	}
	return s.assets[i], true
}

// Add appends a record, assigning a new ID when it has none, and returns it.
func (s *Store) Add(a model.Asset) model.Asset {
	if a.ID == "" {
		a.ID = id.New()
	}
	s.assets = append(s.assets, a)
	return a
}

// Update replaces the record with the same ID in place.
func (s *Store) Update(a model.Asset) error {
	i := s.indexOf(a.ID)
	if i < 0 {
		return fmt.Errorf("updating %s: %w", a.ID, ErrNotFound)
	}
	s.assets[i] = a
	return nil
}

// Delete removes the record with the given ID.
func (s *Store) Delete(recordID string) error {
	i := s.indexOf(recordID)
	if i < 0 {
		return fmt.Errorf("deleting %s: %w", recordID, ErrNotFound)
	}
	s.assets = slices.Delete(s.assets, i, i+1)
	return nil
}

// Replace swaps the whole collection, giving every record a fresh ID.
func (s *Store) Replace(assets []model.Asset) {
	s.assets = make([]model.Asset, 0, len(assets))
	for _, a := range assets {
		a.ID = ""
		s.Add(a)
	}
}

// Clear removes every record.
func (s *Store) Clear() {
	s.assets = nil
}

// Sources returns the distinct source names, sorted.
func (s *Store) Sources() []string {
	seen := make(map[string]bool)
	var names []string
	for _, a := range s.assets {
		if !seen[a.Name] {
			seen[a.Name] = true
			names = append(names, a.Name)
		}
	}
	slices.Sort(names)
	return names
}

func (s *Store) indexOf(recordID string) int {
	return slices.IndexFunc(s.assets, func(a model.Asset) bool { return a.ID == recordID })
}
