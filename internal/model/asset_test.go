package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/assettrack/assettrack/internal/day"
)

func TestKeyOf(t *testing.T) {
	a := Asset{ID: "x", Date: day.MustParse("2025-01-16"), Name: "A", Amount: decimal.NewFromInt(5), Currency: "USDT"}
	b := Asset{ID: "y", Date: day.MustParse("2025/1/16"), Name: "A", Amount: decimal.NewFromInt(9), Currency: "USDT"}
	assert.Equal(t, KeyOf(a), KeyOf(b), "id and amount are not part of the key")

	prev := KeyOf(a).OnDate(a.Date.Add(-1))
	assert.Equal(t, "2025-01-15", prev.Date.String())
	assert.Equal(t, "A", prev.Name)
	assert.Equal(t, "USDT", prev.Currency)
}

func TestValue(t *testing.T) {
	a := Asset{Date: day.MustParse("2025-01-16"), Name: "Cash", Amount: decimal.RequireFromString("100.00"), Currency: "USD"}
	tests := []struct {
		col  Column
		want string
	}{
		{ColumnDate, "2025-01-16"},
		{ColumnSource, "Cash"},
		{ColumnAmount, "100"},
		{ColumnCurrency, "USD"},
		{ColumnNone, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.Value(tt.col), "column %q", tt.col)
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, Fold("binance"), Fold("BINANCE"))
	assert.Equal(t, Fold("Ünïcode"), Fold("üNÏCODE"))
	assert.NotEqual(t, Fold("cash"), Fold("card"))
}
