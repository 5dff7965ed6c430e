package session

import (
	"github.com/shopspring/decimal"

	"github.com/assettrack/assettrack/internal/day"
	"github.com/assettrack/assettrack/internal/model"
)

// Sample returns demo records: two fixed days in January 2025 plus
// yesterday and today, so the change views have something to compare.
func Sample(today day.Date) []model.Asset {
	yesterday := today.Add(-1)
	row := func(d day.Date, name string, amount int64) model.Asset {
		return model.Asset{Date: d, Name: name, Amount: decimal.NewFromInt(amount), Currency: "USDT"}
	}
	jan15, jan16 := day.New(2025, 1, 15), day.New(2025, 1, 16)
	return []model.Asset{
		row(jan15, "幣安", 50000),
		row(jan15, "現金", 30000),
		row(jan16, "幣安", 52000),
		row(jan16, "現金", 28000),
		row(yesterday, "幣安", 48000),
		row(yesterday, "現金", 32000),
		row(today, "幣安", 55000),
		row(today, "現金", 25000),
		row(today, "投資", 20000),
	}
}
