package core

import (
	"bytes"
	"encoding/csv"
)

// utf8BOM lets Excel detect the encoding and render the localized headers
// correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExportCSV serializes the table as delimited text: a UTF-8 BOM, the
// localized header row, then one line per row in the fixed column order.
// Cells a row does not carry serialize as empty.
func ExportCSV(t Table) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	header := make([]string, len(FixedColumns))
	for i, c := range FixedColumns {
		header[i] = c.Label
	}
	_ = w.Write(header)

	record := make([]string, len(FixedColumns))
	for _, row := range t.Rows {
		for i, c := range FixedColumns {
			record[i] = row.Get(c.Key)
		}
		_ = w.Write(record)
	}
	w.Flush()
	return buf.Bytes()
}
