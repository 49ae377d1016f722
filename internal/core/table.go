package core

import (
	"strings"

	"freightbook/internal/ident"

	"github.com/shopspring/decimal"
)

var newTableID = ident.NewTableID

// CreateTable builds a fresh table of rowCount contiguous rows starting at
// startDateIso. rowCount is clamped to a minimum of 1; a blank or
// unparsable start date falls back to today. The result has already been
// through NormalizeTable.
func CreateTable(def Defaults, startDateIso string, rowCount int) Table {
	if rowCount < 1 {
		rowCount = 1
	}
	start, ok := ParseISODate(startDateIso)
	if !ok {
		start, _ = ParseISODate(TodayISO())
	}
	iso := start.Format(DateLayout)

	rows := make([]Row, 0, rowCount)
	for i := 0; i < rowCount; i++ {
		rows = append(rows, NewRow(def, start.AddDate(0, 0, i).Format(DateLayout)))
	}

	now := NowISO()
	t := Table{
		ID:        newTableID(),
		Name:      iso + "-",
		StartDate: iso,
		Columns:   append([]Column(nil), FixedColumns...),
		Rows:      rows,
		CreatedAt: now,
		UpdatedAt: now,
		Meta: map[string]any{
			"startDate":   iso,
			"initialRows": rowCount,
		},
	}
	return NormalizeTable(def, t)
}

// SummarizeTable normalizes the table, totals every parseable row amount
// (unparsable amounts contribute nothing), and renames the table to
// "{start}-{lastRowLoadDate}" when rows exist. The returned total keeps
// full decimal precision; formatting is the caller's concern.
func SummarizeTable(def Defaults, t Table) (Table, decimal.Decimal) {
	t = NormalizeTable(def, t)

	total := decimal.Zero
	for _, row := range t.Rows {
		if a, ok := ParseDecimal(row.Amount); ok {
			total = total.Add(a)
		}
	}

	start := strings.TrimSpace(t.StartDate)
	if start == "" {
		start = TodayISO()
	}
	end := ""
	if len(t.Rows) > 0 {
		end = strings.TrimSpace(t.Rows[len(t.Rows)-1].LoadDate)
	}
	if end != "" {
		t.Name = start + "-" + end
	} else {
		t.Name = start + "-"
	}
	return t, total
}

// NextStart returns the start date for the follow-up table: the day after
// this table's last load date (falling back to the start date, then
// today), plus the current row count. rowCount is 0 for an empty table so
// the caller can substitute its configured initial row count.
func NextStart(t Table) (string, int) {
	var last string
	if len(t.Rows) > 0 {
		last = t.Rows[len(t.Rows)-1].LoadDate
	}
	d, ok := ParseISODate(last)
	if !ok {
		d, ok = ParseISODate(t.StartDate)
	}
	if !ok {
		d, _ = ParseISODate(TodayISO())
	}
	return d.AddDate(0, 0, 1).Format(DateLayout), len(t.Rows)
}
