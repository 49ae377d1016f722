package core

import (
	"strings"
	"time"

	"freightbook/internal/ident"
)

// newRowID is stubbed in tests that need deterministic ids.
var newRowID = ident.NewRowID

// NormalizeTable is the idempotent pass run before every persist: it
// re-derives each row's load date as startDate + index, backfills missing
// row ids, re-applies vehicle/model defaults, recomputes amounts, and
// keeps startDate and meta.startDate in sync.
//
// The effective start date is resolved as meta.startDate, then startDate,
// then today; an unparsable value also falls back to today. The input
// table is not mutated.
func NormalizeTable(def Defaults, t Table) Table {
	start := resolveStartDate(t)

	rows := make([]Row, 0, len(t.Rows))
	for i, row := range t.Rows {
		if row.ID == "" {
			row.ID = newRowID()
		}
		row = EnsureRowDefaults(def, row)
		row.LoadDate = start.AddDate(0, 0, i).Format(DateLayout)
		row.Amount = ComputeAmount(row)
		rows = append(rows, row)
	}
	t.Rows = rows

	iso := start.Format(DateLayout)
	t.StartDate = iso
	meta := t.CloneMeta()
	meta["startDate"] = iso
	t.Meta = meta
	return t
}

func resolveStartDate(t Table) time.Time {
	iso := metaString(t.Meta, "startDate")
	if iso == "" {
		iso = strings.TrimSpace(t.StartDate)
	}
	if d, ok := ParseISODate(iso); ok {
		return d
	}
	today, _ := ParseISODate(TodayISO())
	return today
}

// metaString reads a string-typed meta value, tolerating absent keys and
// non-string values from legacy documents.
func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	s, _ := meta[key].(string)
	return strings.TrimSpace(s)
}
