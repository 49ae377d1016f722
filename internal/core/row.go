package core

import "strings"

// EnsureRowDefaults fills a blank (after trimming) vehicle or model cell
// from the configured defaults. The input row is not mutated.
func EnsureRowDefaults(def Defaults, row Row) Row {
	if strings.TrimSpace(row.Vehicle) == "" {
		row.Vehicle = def.Vehicle
	}
	if strings.TrimSpace(row.Model) == "" {
		row.Model = def.Model
	}
	return row
}

// ComputeAmount derives the row's amount as freight × settleTons. If
// either operand is blank or unparsable the amount is the empty string,
// not an error: partially filled rows are a normal editing state.
func ComputeAmount(row Row) string {
	freight, ok := ParseDecimal(row.Freight)
	if !ok {
		return ""
	}
	settle, ok := ParseDecimal(row.SettleTons)
	if !ok {
		return ""
	}
	return FormatDecimal(freight.Mul(settle))
}

// NewRow returns a fresh row seeded with a generated id, the given load
// date, and the configured vehicle/model defaults. All other cells start
// empty.
func NewRow(def Defaults, loadDate string) Row {
	return EnsureRowDefaults(def, Row{
		ID:       newRowID(),
		LoadDate: loadDate,
	})
}
