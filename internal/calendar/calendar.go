// Package calendar lays records out as month grids and day details.
package calendar

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/assettrack/assettrack/internal/aggregate"
	"github.com/assettrack/assettrack/internal/change"
	"github.com/assettrack/assettrack/internal/day"
	"github.com/assettrack/assettrack/internal/model"
)

// GridDays is the number of cells in a month grid: six full weeks.
const GridDays = 42

// DisplayMode selects what a calendar cell shows.
type DisplayMode string

const (
	ModeTotal  DisplayMode = "total"
	ModeChange DisplayMode = "change"
	ModeBoth   DisplayMode = "both"
)

// ParseMode reads a display mode; empty means ModeTotal.
func ParseMode(s string) (DisplayMode, error) {
	switch m := DisplayMode(s); m {
	case "":
		return ModeTotal, nil
	case ModeTotal, ModeChange, ModeBoth:
		return m, nil
	}
	return "", fmt.Errorf("unknown calendar mode %q (want total, change or both)", s)
}

// Cell is one day of the calendar.
type Cell struct {
	Date  day.Date
	Count int
	Total decimal.Decimal
	// Change is nil when nothing was recorded the previous day.
	Change  *change.Change
	InMonth bool
}

// HasData reports whether any record falls on the cell's date.
func (c Cell) HasData() bool { return c.Count > 0 }

// CellFor summarises the records on date.
func CellFor(records []model.Asset, date day.Date) Cell {
	on := aggregate.OnDate(records, date)
	cell := Cell{Date: date, Count: len(on), Total: aggregate.Sum(on), InMonth: true}
	if len(on) == 0 {
		return cell
	}
	if c, ok := change.AggregateDaily(records, date); ok {
		cell.Change = &c
	}
	return cell
}

// Month returns the 42-cell grid for year/month, starting on the Sunday on or
// before the 1st. Days outside the month carry no data.
func Month(records []model.Asset, year int, month time.Month) []Cell {
	first := day.New(year, month, 1)
	start := first.Add(-int(first.Weekday()))

	cells := make([]Cell, GridDays)
	for i := range cells {
		d := start.Add(i)
		if d.Month() != month {
			cells[i] = Cell{Date: d}
			continue
		}
		cells[i] = CellFor(records, d)
	}
	return cells
}

// Entry is one record of a day with its change against the same source and
// currency the day before.
type Entry struct {
	Asset  model.Asset
	Change *change.Change
}

// DayDetails is everything shown for a single selected day.
type DayDetails struct {
	Cell
	Entries []Entry
}

// Details returns the summary and per-record changes of date.
func Details(records []model.Asset, date day.Date) DayDetails {
	details := DayDetails{Cell: CellFor(records, date)}
	for _, a := range aggregate.OnDate(records, date) {
		e := Entry{Asset: a}
		if c, ok := change.Daily(records, a); ok {
			e.Change = &c
		}
		details.Entries = append(details.Entries, e)
	}
	return details
}
