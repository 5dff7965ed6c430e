// Package filter narrows a record list by date range, amount range and
// per-column allow-lists.
//
// Every axis is independent and all active axes must pass. A column's Search
// text only narrows the options offered for selection (see Options); it never
// removes records by itself.
package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/assettrack/assettrack/internal/day"
	"github.com/assettrack/assettrack/internal/model"
)

// Set is an allow-list of column values. An empty Set allows everything.
type Set map[string]struct{}

// Has reports whether v is in the set.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Values returns the members in sorted order.
func (s Set) Values() []string {
	vals := make([]string, 0, len(s))
	for v := range s {
		vals = append(vals, v)
	}
	slices.Sort(vals)
	return vals
}

// DateAxis constrains the date column. Zero bounds are open.
type DateAxis struct {
	From     day.Date
	To       day.Date
	Selected Set
}

// AmountAxis constrains the amount column. Invalid bounds are open.
type AmountAxis struct {
	Min      decimal.NullDecimal
	Max      decimal.NullDecimal
	Selected Set
}

// TextAxis constrains the source or currency column.
type TextAxis struct {
	Search   string
	Selected Set
}

// State is the full filter configuration of a table view.
// The zero State lets every record through.
type State struct {
	Date     DateAxis
	Source   TextAxis
	Amount   AmountAxis
	Currency TextAxis
}

// Apply returns the records that pass every active axis, in input order.
func Apply(records []model.Asset, st State) []model.Asset {
	result := make([]model.Asset, 0, len(records))
	for _, a := range records {
		if st.Match(a) {
			result = append(result, a)
		}
	}
	return result
}

// Match reports whether a single record passes the filter.
func (st State) Match(a model.Asset) bool {
	if !st.Date.From.IsZero() && a.Date.Before(st.Date.From) {
		return false
	}
	if !st.Date.To.IsZero() && a.Date.After(st.Date.To) {
		return false
	}
	if len(st.Date.Selected) > 0 && !st.Date.Selected.Has(a.Value(model.ColumnDate)) {
		return false
	}
	if len(st.Source.Selected) > 0 && !st.Source.Selected.Has(a.Name) {
		return false
	}
	if len(st.Currency.Selected) > 0 && !st.Currency.Selected.Has(a.Currency) {
		return false
	}
	if st.Amount.Min.Valid && a.Amount.LessThan(st.Amount.Min.Decimal) {
		return false
	}
	if st.Amount.Max.Valid && a.Amount.GreaterThan(st.Amount.Max.Decimal) {
		return false
	}
	if len(st.Amount.Selected) > 0 && !st.Amount.Selected.Has(a.Value(model.ColumnAmount)) {
		return false
	}
	return true
}

// SetDateRange sets the inclusive date bounds. An empty string leaves that side open.
func (st *State) SetDateRange(from, to string) error {
	f, err := parseOptionalDate(from)
	if err != nil {
		return fmt.Errorf("date from: %w", err)
	}
	t, err := parseOptionalDate(to)
	if err != nil {
		return fmt.Errorf("date to: %w", err)
	}
	st.Date.From, st.Date.To = f, t
	return nil
}

// SetAmountRange sets the inclusive amount bounds. An empty string leaves that side open.
func (st *State) SetAmountRange(lo, hi string) error {
	minAmt, err := parseOptionalAmount(lo)
	if err != nil {
		return fmt.Errorf("amount min: %w", err)
	}
	maxAmt, err := parseOptionalAmount(hi)
	if err != nil {
		return fmt.Errorf("amount max: %w", err)
	}
	st.Amount.Min, st.Amount.Max = minAmt, maxAmt
	return nil
}

// SetSearch sets the option search text of the source or currency column.
func (st *State) SetSearch(c model.Column, text string) error {
	switch c {
	case model.ColumnSource:
		st.Source.Search = text
	case model.ColumnCurrency:
		st.Currency.Search = text
	default:
		return fmt.Errorf("column %q has no search", c)
	}
	return nil
}

// Select adds values to a column's allow-list. Dates and amounts are
// normalised, so "2025/1/5" selects 2025-01-05 and "100.00" selects 100.
func (st *State) Select(c model.Column, values ...string) error {
	set, err := st.selected(c)
	if err != nil {
		return err
	}
	for _, v := range values {
		key, err := normalize(c, v)
		if err != nil {
			return err
		}
		(*set)[key] = struct{}{}
	}
	return nil
}

// Deselect removes values from a column's allow-list.
func (st *State) Deselect(c model.Column, values ...string) error {
	set, err := st.selected(c)
	if err != nil {
		return err
	}
	for _, v := range values {
		key, err := normalize(c, v)
		if err != nil {
			return err
		}
		delete(*set, key)
	}
	return nil
}

// SelectAll drops a column's allow-list so every value passes again.
func (st *State) SelectAll(c model.Column) error {
	set, err := st.selected(c)
	if err != nil {
		return err
	}
	*set = nil
	return nil
}

// Clear resets every axis.
func (st *State) Clear() {
	*st = State{}
}

// Active reports whether the column has any constraint, search text included.
func (st State) Active(c model.Column) bool {
	switch c {
	case model.ColumnDate:
		return len(st.Date.Selected) > 0 || !st.Date.From.IsZero() || !st.Date.To.IsZero()
	case model.ColumnSource:
		return len(st.Source.Selected) > 0 || st.Source.Search != ""
	case model.ColumnAmount:
		return len(st.Amount.Selected) > 0 || st.Amount.Min.Valid || st.Amount.Max.Valid
	case model.ColumnCurrency:
		return len(st.Currency.Selected) > 0 || st.Currency.Search != ""
	}
	return false
}

// AnyActive reports whether any column is constrained.
func (st State) AnyActive() bool {
	for _, c := range model.Columns {
		if st.Active(c) {
			return true
		}
	}
	return false
}

// Search returns the option search text of a column, if it has one.
func (st State) Search(c model.Column) string {
	switch c {
	case model.ColumnSource:
		return st.Source.Search
	case model.ColumnCurrency:
		return st.Currency.Search
	}
	return ""
}

func (st *State) selected(c model.Column) (*Set, error) {
	var set *Set
	switch c {
	case model.ColumnDate:
		set = &st.Date.Selected
	case model.ColumnSource:
		set = &st.Source.Selected
	case model.ColumnAmount:
		set = &st.Amount.Selected
	case model.ColumnCurrency:
		set = &st.Currency.Selected
	default:
		return nil, fmt.Errorf("unknown filter column %q", c)
	}
	if *set == nil {
		*set = make(Set)
	}
	return set, nil
}

// Options lists the distinct values of a column across records, in column
// order, keeping only those whose text contains search (case-insensitive).
func Options(records []model.Asset, c model.Column, search string) []string {
	seen := make(map[string]model.Asset)
	for _, a := range records {
		v := a.Value(c)
		if _, ok := seen[v]; !ok {
			seen[v] = a
		}
	}

	needle := model.Fold(search)
	opts := make([]string, 0, len(seen))
	for v := range seen {
		if needle == "" || strings.Contains(model.Fold(v), needle) {
			opts = append(opts, v)
		}
	}

	if c == model.ColumnAmount {
		slices.SortFunc(opts, func(x, y string) int {
			return seen[x].Amount.Cmp(seen[y].Amount)
		})
	} else {
		slices.Sort(opts)
	}
	return opts
}

func normalize(c model.Column, v string) (string, error) {
	switch c {
	case model.ColumnDate:
		d, err := day.Parse(v)
		if err != nil {
			return "", err
		}
		return d.String(), nil
	case model.ColumnAmount:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return "", fmt.Errorf("invalid amount %q: %w", v, err)
		}
		return d.String(), nil
	}
	return v, nil
}

func parseOptionalDate(s string) (day.Date, error) {
	if strings.TrimSpace(s) == "" {
		return day.Date{}, nil
	}
	return day.Parse(s)
}

func parseOptionalAmount(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return decimal.NewNullDecimal(d), nil
}
