// Package sorter orders table rows by one column. With no column chosen the
// newest records come first.
package sorter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/assettrack/assettrack/internal/model"
)

// Direction is the sort direction of the active column.
type Direction string

const (
	None       Direction = ""
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// State is the single active sort of a table view. The zero State means
// "default order": newest date first.
type State struct {
	Column    model.Column
	Direction Direction
}

// Toggle advances the sort for a clicked column header.
// The same column cycles asc -> desc -> none; another column starts at asc.
func (s *State) Toggle(c model.Column) {
	if s.Column != c {
		s.Column, s.Direction = c, Ascending
		return
	}
	switch s.Direction {
	case Ascending:
		s.Direction = Descending
	case Descending:
		s.Column, s.Direction = model.ColumnNone, None
	default:
		s.Direction = Ascending
	}
}

// Reset returns to the default order.
func (s *State) Reset() {
	*s = State{}
}

// IsDefault reports whether no explicit sort is active.
func (s State) IsDefault() bool {
	return s.Column == model.ColumnNone || s.Direction == None
}

// Apply returns a stably sorted copy of records.
func Apply(records []model.Asset, s State) []model.Asset {
	out := slices.Clone(records)
	if s.IsDefault() {
		slices.SortStableFunc(out, func(a, b model.Asset) int {
			return b.Date.Compare(a.Date)
		})
		return out
	}

	cmp := comparator(s.Column)
	if s.Direction == Descending {
		slices.SortStableFunc(out, func(a, b model.Asset) int { return cmp(b, a) })
	} else {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

func comparator(c model.Column) func(a, b model.Asset) int {
	switch c {
	case model.ColumnDate:
		return func(a, b model.Asset) int { return a.Date.Compare(b.Date) }
	case model.ColumnSource:
		return func(a, b model.Asset) int { return strings.Compare(model.Fold(a.Name), model.Fold(b.Name)) }
	case model.ColumnAmount:
		return func(a, b model.Asset) int { return a.Amount.Cmp(b.Amount) }
	case model.ColumnCurrency:
		return func(a, b model.Asset) int { return strings.Compare(model.Fold(a.Currency), model.Fold(b.Currency)) }
	}
	return func(model.Asset, model.Asset) int { return 0 }
}

// ParseColumn reads a column name as typed on the command line.
// "name" is accepted as an alias for source.
func ParseColumn(s string) (model.Column, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return model.ColumnNone, nil
	case "date":
		return model.ColumnDate, nil
	case "source", "name":
		return model.ColumnSource, nil
	case "amount":
		return model.ColumnAmount, nil
	case "currency":
		return model.ColumnCurrency, nil
	}
	return model.ColumnNone, fmt.Errorf("unknown column %q (want date, source, amount or currency)", s)
}

// ParseDirection reads "asc", "desc" or "" (default order).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return None, nil
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return None, fmt.Errorf("unknown sort direction %q (want asc or desc)", s)
}
