// Package change computes day-over-day deltas, either for one
// (source, currency) group or for the whole collection.
package change

import (
	"github.com/shopspring/decimal"

	"github.com/assettrack/assettrack/internal/aggregate"
	"github.com/assettrack/assettrack/internal/day"
	"github.com/assettrack/assettrack/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Trend classifies a change for display.
type Trend string

const (
	Gain Trend = "gain"
	Loss Trend = "loss"
	Flat Trend = "flat"
)

// Change is the difference between a day's total and the previous day's.
type Change struct {
	Previous decimal.Decimal
	Current  decimal.Decimal
	Delta    decimal.Decimal
	// Percent is Delta relative to Previous, in percent. Zero when Previous is zero.
	Percent decimal.Decimal
}

// Trend reports whether the change is a gain, a loss or flat.
func (c Change) Trend() Trend {
	switch c.Delta.Sign() {
	case 1:
		return Gain
	case -1:
		return Loss
	}
	return Flat
}

func between(previous, current decimal.Decimal) Change {
	c := Change{Previous: previous, Current: current, Delta: current.Sub(previous)}
	if !previous.IsZero() {
		c.Percent = c.Delta.Div(previous).Mul(hundred)
	}
	return c
}

// Daily compares the target's group on its date with the same group on the
// previous day. It reports false when the group has no record the day before.
func Daily(records []model.Asset, target model.Asset) (Change, bool) {
	key := model.KeyOf(target)
	totals := aggregate.Totals(records)
	previous, ok := totals[key.OnDate(target.Date.Add(-1))]
	if !ok {
		return Change{}, false
	}
	return between(previous, totals[key]), true
}

// AggregateDaily compares the total of all records on date with the total on
// the previous day. It reports false when nothing is recorded the day before.
func AggregateDaily(records []model.Asset, date day.Date) (Change, bool) {
	prev := aggregate.OnDate(records, date.Add(-1))
	if len(prev) == 0 {
		return Change{}, false
	}
	return between(aggregate.Sum(prev), aggregate.Sum(aggregate.OnDate(records, date))), true
}
