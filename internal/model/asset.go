package model

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/assettrack/assettrack/internal/day"
)

// Asset is one dated balance reading for a source, e.g. "Binance held 50000 USDT on 2025-08-20".
type Asset struct {
	ID       string          `json:"id"`
	Date     day.Date        `json:"date"`
	Name     string          `json:"name"` // source label
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Draft is unvalidated asset input from a form, a CSV row or a JSON object.
type Draft struct {
	Date     string `json:"date" validate:"required,calendar_date"`
	Name     string `json:"name" validate:"required"`
	Amount   string `json:"amount" validate:"required,positive_amount"`
	Currency string `json:"currency" validate:"required"`
}

// GroupKey identifies the (date, source, currency) bucket a record belongs to.
type GroupKey struct {
	Date     day.Date
	Name     string
	Currency string
}

// KeyOf returns the grouping key of a record. All grouping goes through here.
func KeyOf(a Asset) GroupKey {
	return GroupKey{Date: a.Date, Name: a.Name, Currency: a.Currency}
}

// OnDate returns the same source/currency bucket on another day.
func (k GroupKey) OnDate(d day.Date) GroupKey {
	k.Date = d
	return k
}

// Column names a displayed record column, shared by filtering and sorting.
type Column string

const (
	ColumnNone     Column = ""
	ColumnDate     Column = "date"
	ColumnSource   Column = "source"
	ColumnAmount   Column = "amount"
	ColumnCurrency Column = "currency"
)

// Columns lists the filterable and sortable columns in display order.
var Columns = []Column{ColumnDate, ColumnSource, ColumnAmount, ColumnCurrency}

// Value returns the displayed value of column c for a record.
// Amounts use decimal canonical form, so 100 and 100.00 give the same value.
func (a Asset) Value(c Column) string {
	switch c {
	case ColumnDate:
		return a.Date.String()
	case ColumnSource:
		return a.Name
	case ColumnAmount:
		return a.Amount.String()
	case ColumnCurrency:
		return a.Currency
	}
	return ""
}

// Fold returns s case-folded, for case-insensitive comparison and search.
func Fold(s string) string {
	return cases.Fold().String(s)
}
