package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assettrack/assettrack/internal/day"
	"github.com/assettrack/assettrack/internal/model"
)

func date(s string) day.Date { return day.MustParse(s) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func asset(d, name, amount, currency string) model.Asset {
	return model.Asset{Date: date(d), Name: name, Amount: dec(amount), Currency: currency}
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s got %s", want, got.String()}, msgAndArgs...)...)
}

func TestDailyTotals(t *testing.T) {
	records := []model.Asset{
		asset("2025-01-16", "A", "120", "USDT"),
		asset("2025-01-15", "A", "100", "USDT"),
		asset("2025-01-15", "B", "50.5", "TWD"),
	}

	got := DailyTotals(records)
	require.Len(t, got, 2)
	assert.Equal(t, date("2025-01-15"), got[0].Date)
	assertDec(t, "150.5", got[0].Total)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, date("2025-01-16"), got[1].Date)
	assertDec(t, "120", got[1].Total)
}

func TestDailyTotals_Empty(t *testing.T) {
	assert.Empty(t, DailyTotals(nil))
}

func TestLatestSnapshot(t *testing.T) {
	records := []model.Asset{
		asset("2025-01-15", "A", "100", "USDT"),
		asset("2025-01-16", "A", "120", "USDT"),
	}

	snap, ok := LatestSnapshot(records)
	require.True(t, ok)
	assert.Equal(t, date("2025-01-16"), snap.Date)
	assert.Equal(t, []string{"A"}, snap.Order)
	assertDec(t, "120", snap.PerSource["A"])
	assertDec(t, "120", snap.Total())
}

func TestLatestSnapshot_GroupsBySourceInFirstSeenOrder(t *testing.T) {
	records := []model.Asset{
		asset("2025-01-16", "Cash", "10", "TWD"),
		asset("2025-01-16", "Binance", "20", "USDT"),
		asset("2025-01-16", "Cash", "5", "USD"),
		asset("2025-01-10", "Old", "999", "USD"),
	}

	snap, ok := LatestSnapshot(records)
	require.True(t, ok)
	assert.Equal(t, []string{"Cash", "Binance"}, snap.Order)
	assertDec(t, "15", snap.PerSource["Cash"])
	assertDec(t, "35", snap.Total())
}

func TestLatestSnapshot_Empty(t *testing.T) {
	snap, ok := LatestSnapshot(nil)
	assert.False(t, ok)
	assert.True(t, snap.Date.IsZero())
	assertDec(t, "0", TotalAssets(nil))
}

func TestTotalAssets(t *testing.T) {
	records := []model.Asset{
		asset("2025-01-15", "A", "100", "USDT"),
		asset("2025-01-16", "A", "120", "USDT"),
		asset("2025-01-16", "B", "30", "USDT"),
	}
	assertDec(t, "150", TotalAssets(records))
}

func TestSeries(t *testing.T) {
	records := []model.Asset{
		asset("2025-01-17", "A", "90", "USDT"),
		asset("2025-01-15", "A", "100", "USDT"),
		asset("2025-01-16", "A", "120", "USDT"),
	}

	s := Series(records)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, []day.Date{date("2025-01-15"), date("2025-01-16"), date("2025-01-17")}, s.Labels)
	assertDec(t, "100", s.Totals[0])
	assertDec(t, "0", s.Deltas[0])
	assertDec(t, "20", s.Deltas[1])
	assertDec(t, "-30", s.Deltas[2])
}

func TestWindow(t *testing.T) {
	today := date("2025-03-01")
	records := []model.Asset{
		asset("2025-02-20", "A", "1", "USDT"),
		asset("2025-02-22", "A", "1", "USDT"),
		asset("2025-01-01", "A", "1", "USDT"),
	}

	assert.Len(t, Window(records, 0, today), 3)
	assert.Len(t, Window(records, -1, today), 3)

	got := Window(records, 7, today)
	require.Len(t, got, 1)
	assert.Equal(t, date("2025-02-22"), got[0].Date)

	assert.Len(t, Window(records, 9, today), 2, "start bound is inclusive")
}

func TestTotals(t *testing.T) {
	records := []model.Asset{
		asset("2025-01-15", "A", "100", "USDT"),
		asset("2025-01-15", "A", "50", "USDT"),
		asset("2025-01-15", "A", "7", "TWD"),
	}
	got := Totals(records)
	require.Len(t, got, 2)
	assertDec(t, "150", got[model.GroupKey{Date: date("2025-01-15"), Name: "A", Currency: "USDT"}])
	assertDec(t, "7", got[model.KeyOf(records[2])])
}

func TestOnDateAndSum(t *testing.T) {
	records := []model.Asset{
		asset("2025-01-15", "A", "1.5", "USDT"),
		asset("2025-01-16", "B", "2", "USDT"),
		asset("2025-01-15", "C", "3", "USDT"),
	}
	on := OnDate(records, date("2025-01-15"))
	require.Len(t, on, 2)
	assert.Equal(t, "C", on[1].Name)
	assertDec(t, "4.5", Sum(on))
	assert.Empty(t, OnDate(records, date("2025-02-01")))
}
