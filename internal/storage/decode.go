package storage

import (
	"encoding/json"

	"freightbook/internal/core"
)

// decodeTable turns a stored document into a table, tolerating the damage
// old or hand-edited files accumulate: a non-object document yields nil,
// non-object row entries are dropped (their indexes are returned so the
// caller can log the loss), and numeric cells from legacy documents are
// coerced to their canonical string form.
func decodeTable(data []byte) (*core.Table, []int) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, nil
	}

	t := &core.Table{
		ID:        rawString(raw["id"]),
		Name:      rawString(raw["name"]),
		StartDate: rawString(raw["startDate"]),
		CreatedAt: rawString(raw["createdAt"]),
		UpdatedAt: rawString(raw["updatedAt"]),
	}
	// Columns and meta are best-effort; a malformed value means absent.
	_ = json.Unmarshal(raw["columns"], &t.Columns)
	_ = json.Unmarshal(raw["meta"], &t.Meta)

	var rows []json.RawMessage
	_ = json.Unmarshal(raw["rows"], &rows)

	var dropped []int
	t.Rows = make([]core.Row, 0, len(rows))
	for i, msg := range rows {
		var cells map[string]json.RawMessage
		if err := json.Unmarshal(msg, &cells); err != nil || cells == nil {
			dropped = append(dropped, i)
			continue
		}
		t.Rows = append(t.Rows, rowFromCells(cells))
	}
	return t, dropped
}

func rowFromCells(cells map[string]json.RawMessage) core.Row {
	row := core.Row{ID: rawString(cells["id"])}
	for _, c := range core.FixedColumns {
		if msg, ok := cells[c.Key]; ok {
			row.Set(c.Key, rawString(msg))
		}
	}
	return row
}

// rawString reads a JSON value as a cell string: strings pass through,
// numbers keep their written form ("2.5", not a float round trip), and
// anything else is empty.
func rawString(msg json.RawMessage) string {
	if len(msg) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(msg, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(msg, &n) == nil {
		return n.String()
	}
	return ""
}
