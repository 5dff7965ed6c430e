// Package render draws core results as terminal tables.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/assettrack/assettrack/internal/aggregate"
	"github.com/assettrack/assettrack/internal/calendar"
	"github.com/assettrack/assettrack/internal/change"
	"github.com/assettrack/assettrack/internal/filter"
	"github.com/assettrack/assettrack/internal/id"
	"github.com/assettrack/assettrack/internal/model"
	"github.com/assettrack/assettrack/internal/sorter"
)

// Theme holds the styles of one colour scheme.
type Theme struct {
	Header lipgloss.Style
	Border lipgloss.Style
	Gain   lipgloss.Style
	Loss   lipgloss.Style
	Dim    lipgloss.Style
	Title  lipgloss.Style
}

// NewTheme returns the dark or light scheme.
func NewTheme(dark bool) Theme {
	if dark {
		return Theme{
			Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
			Border: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			Gain:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Loss:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
			Dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		}
	}
	return Theme{
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")),
		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Gain:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Loss:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
	}
}

func (th Theme) table(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(th.Border).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return th.Header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func (th Theme) trend(t change.Trend) lipgloss.Style {
	switch t {
	case change.Gain:
		return th.Gain
	case change.Loss:
		return th.Loss
	}
	return th.Dim
}

// Amount formats a decimal with thousands separators: 1234567.5 -> 1,234,567.5.
func Amount(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole := humanize.BigComma(d.Truncate(0).BigInt())
	frac := d.Sub(d.Truncate(0))
	if frac.IsZero() {
		return sign + whole
	}
	// frac.String() is "0.xxx".
	return sign + whole + strings.TrimPrefix(frac.String(), "0")
}

// Signed formats a delta with an explicit sign.
func Signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + Amount(d)
	}
	return Amount(d)
}

// Percent formats a percentage with two decimals and a sign.
func Percent(p decimal.Decimal) string {
	s := p.StringFixed(2) + "%"
	if p.IsPositive() {
		return "+" + s
	}
	return s
}

// Change formats a change as "+50 (+50.00%)", styled by its trend.
func (th Theme) Change(c *change.Change) string {
	if c == nil {
		return th.Dim.Render("-")
	}
	return th.trend(c.Trend()).Render(fmt.Sprintf("%s (%s)", Signed(c.Delta), Percent(c.Percent)))
}

func sortMark(st sorter.State, c model.Column) string {
	if st.Column != c {
		return ""
	}
	switch st.Direction {
	case sorter.Ascending:
		return " ↑"
	case sorter.Descending:
		return " ↓"
	}
	return ""
}

func filterMark(st filter.State, c model.Column) string {
	if st.Active(c) {
		return " *"
	}
	return ""
}

// Records draws the asset table. Headers carry sort arrows and a "*" on
// filtered columns.
func (th Theme) Records(records []model.Asset, fs filter.State, ss sorter.State) string {
	headers := []string{"ID"}
	for _, c := range model.Columns {
		headers = append(headers, columnTitle(c)+sortMark(ss, c)+filterMark(fs, c))
	}
	t := th.table(headers...)
	for _, a := range records {
		t.Row(id.Short(a.ID), a.Date.String(), a.Name, Amount(a.Amount), a.Currency)
	}
	return t.String()
}

func columnTitle(c model.Column) string {
	switch c {
	case model.ColumnDate:
		return "Date"
	case model.ColumnSource:
		return "Source"
	case model.ColumnAmount:
		return "Amount"
	case model.ColumnCurrency:
		return "Currency"
	}
	return string(c)
}

// Options draws the selectable values of a column, marking selected ones.
func (th Theme) Options(values []string, selected filter.Set) string {
	var b strings.Builder
	for _, v := range values {
		mark := "[ ]"
		if selected.Has(v) {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "%s %s\n", mark, v)
	}
	return b.String()
}

// Series draws daily totals with their day-over-day deltas.
func (th Theme) Series(s aggregate.ChartSeries) string {
	t := th.table("Date", "Total", "Change")
	for i := range s.Labels {
		delta := s.Deltas[i]
		style := th.Dim
		switch delta.Sign() {
		case 1:
			style = th.Gain
		case -1:
			style = th.Loss
		}
		t.Row(s.Labels[i].String(), Amount(s.Totals[i]), style.Render(Signed(delta)))
	}
	return t.String()
}

// Snapshot draws the latest per-source totals with each source's share.
func (th Theme) Snapshot(snap aggregate.Snapshot) string {
	total := snap.Total()
	t := th.table("Source", "Amount", "Share")
	for _, name := range snap.Order {
		amt := snap.PerSource[name]
		share := decimal.Zero
		if !total.IsZero() {
			share = amt.Div(total).Mul(decimal.NewFromInt(100))
		}
		t.Row(name, Amount(amt), share.StringFixed(1)+"%")
	}
	t.Row("Total", Amount(total), "")
	return th.Title.Render(snap.Date.String()) + "\n" + t.String()
}

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Calendar draws a month grid. Each cell shows the day number and, for days
// with records, the total, the change or both.
func (th Theme) Calendar(cells []calendar.Cell, mode calendar.DisplayMode) string {
	t := th.table(weekdays...)
	for week := 0; week+7 <= len(cells); week += 7 {
		row := make([]string, 7)
		for i, c := range cells[week : week+7] {
			row[i] = th.cell(c, mode)
		}
		t.Row(row...)
	}
	return t.String()
}

func (th Theme) cell(c calendar.Cell, mode calendar.DisplayMode) string {
	num := fmt.Sprintf("%2d", c.Date.Day())
	if !c.InMonth {
		return th.Dim.Render(num)
	}
	if !c.HasData() {
		return num
	}

	lines := []string{num}
	if mode == calendar.ModeTotal || mode == calendar.ModeBoth {
		lines = append(lines, Amount(c.Total))
	}
	if mode == calendar.ModeChange || mode == calendar.ModeBoth {
		if c.Change != nil {
			lines = append(lines, th.trend(c.Change.Trend()).Render(Signed(c.Change.Delta)))
		} else {
			lines = append(lines, th.Dim.Render("-"))
		}
	}
	return strings.Join(lines, "\n")
}

// Day draws the records of one day with their per-source changes.
func (th Theme) Day(d calendar.DayDetails) string {
	var b strings.Builder
	b.WriteString(th.Title.Render(d.Date.String()))
	fmt.Fprintf(&b, "  total %s  change %s\n", Amount(d.Total), th.Change(d.Change))

	t := th.table("ID", "Source", "Amount", "Currency", "Change")
	for _, e := range d.Entries {
		t.Row(id.Short(e.Asset.ID), e.Asset.Name, Amount(e.Asset.Amount), e.Asset.Currency, th.Change(e.Change))
	}
	b.WriteString(t.String())
	return b.String()
}
