// Package aggregate derives daily totals, the latest per-source snapshot and
// chart series from a record list. Nothing here is cached: every call scans
// its input.
package aggregate

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/assettrack/assettrack/internal/day"
	"github.com/assettrack/assettrack/internal/model"
)

// DayTotal is the sum of every record on one date.
type DayTotal struct {
	Date  day.Date
	Total decimal.Decimal
	Count int
}

// DailyTotals returns one entry per distinct date, oldest first.
func DailyTotals(records []model.Asset) []DayTotal {
	idx := make(map[day.Date]int)
	var totals []DayTotal
	for _, a := range records {
		i, ok := idx[a.Date]
		if !ok {
			i = len(totals)
			idx[a.Date] = i
			totals = append(totals, DayTotal{Date: a.Date})
		}
		totals[i].Total = totals[i].Total.Add(a.Amount)
		totals[i].Count++
	}
	slices.SortFunc(totals, func(x, y DayTotal) int { return x.Date.Compare(y.Date) })
	return totals
}

// OnDate returns the records dated d, in input order.
func OnDate(records []model.Asset, d day.Date) []model.Asset {
	var out []model.Asset
	for _, a := range records {
		if a.Date == d {
			out = append(out, a)
		}
	}
	return out
}

// Sum adds up the amounts of records.
func Sum(records []model.Asset) decimal.Decimal {
	total := decimal.Zero
	for _, a := range records {
		total = total.Add(a.Amount)
	}
	return total
}

// LatestDate returns the most recent date present in records.
func LatestDate(records []model.Asset) (day.Date, bool) {
	if len(records) == 0 {
		return day.Date{}, false
	}
	latest := records[0].Date
	for _, a := range records[1:] {
		if a.Date.After(latest) {
			latest = a.Date
		}
	}
	return latest, true
}

// Snapshot is the per-source breakdown of the most recent date.
type Snapshot struct {
	Date      day.Date
	PerSource map[string]decimal.Decimal
	// Order lists the sources in the order they first appear in the input.
	Order []string
}

// Total sums every source of the snapshot.
func (s Snapshot) Total() decimal.Decimal {
	total := decimal.Zero
	for _, name := range s.Order {
		total = total.Add(s.PerSource[name])
	}
	return total
}

// LatestSnapshot groups the records of the most recent date by source.
// It reports false when records is empty.
func LatestSnapshot(records []model.Asset) (Snapshot, bool) {
	latest, ok := LatestDate(records)
	if !ok {
		return Snapshot{}, false
	}

	snap := Snapshot{Date: latest, PerSource: make(map[string]decimal.Decimal)}
	for _, a := range records {
		if a.Date != latest {
			continue
		}
		cur, seen := snap.PerSource[a.Name]
		if !seen {
			snap.Order = append(snap.Order, a.Name)
		}
		snap.PerSource[a.Name] = cur.Add(a.Amount)
	}
	return snap, true
}

// TotalAssets is the headline figure: the latest snapshot's total, or zero.
func TotalAssets(records []model.Asset) decimal.Decimal {
	snap, ok := LatestSnapshot(records)
	if !ok {
		return decimal.Zero
	}
	return snap.Total()
}

// ChartSeries holds parallel slices for a line/bar chart of daily totals.
type ChartSeries struct {
	Labels []day.Date
	Totals []decimal.Decimal
	// Deltas[0] is always zero.
	Deltas []decimal.Decimal
}

// Len returns the number of points in the series.
func (s ChartSeries) Len() int { return len(s.Labels) }

// Series builds the chart series from the daily totals of records.
func Series(records []model.Asset) ChartSeries {
	daily := DailyTotals(records)
	s := ChartSeries{
		Labels: make([]day.Date, len(daily)),
		Totals: make([]decimal.Decimal, len(daily)),
		Deltas: make([]decimal.Decimal, len(daily)),
	}
	for i, dt := range daily {
		s.Labels[i] = dt.Date
		s.Totals[i] = dt.Total
		if i == 0 {
			s.Deltas[i] = decimal.Zero
		} else {
			s.Deltas[i] = dt.Total.Sub(daily[i-1].Total)
		}
	}
	return s
}

// Ranges are the chart time-range choices in days; 0 means all.
var Ranges = []int{0, 7, 30, 90, 365}

// Window keeps the records dated on or after today-days.
// days <= 0 keeps everything.
func Window(records []model.Asset, days int, today day.Date) []model.Asset {
	if days <= 0 {
		return slices.Clone(records)
	}
	start := today.Add(-days)
	out := make([]model.Asset, 0, len(records))
	for _, a := range records {
		if !a.Date.Before(start) {
			out = append(out, a)
		}
	}
	return out
}

// Totals sums amounts per (date, source, currency).
func Totals(records []model.Asset) map[model.GroupKey]decimal.Decimal {
	totals := make(map[model.GroupKey]decimal.Decimal)
	for _, a := range records {
		k := model.KeyOf(a)
		totals[k] = totals[k].Add(a.Amount)
	}
	return totals
}
