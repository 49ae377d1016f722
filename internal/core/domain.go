// Package core holds the shipment-ledger domain: tables of dated rows,
// decimal money math, and the normalization pass that keeps row dates and
// derived amounts consistent with a table's start date. Everything here is
// pure; persistence and timers live in other packages.
package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// DateLayout is the canonical calendar-date form used for startDate
	// and all row load dates.
	DateLayout = "2006-01-02"

	// TimestampLayout matches createdAt/updatedAt stamps, second precision.
	TimestampLayout = "2006-01-02T15:04:05"
)

var (
	ErrBlankTableID     = errors.New("table id is blank")
	ErrInvalidStartDate = errors.New("invalid start date, expected YYYY-MM-DD")
)

type (
	// Column pairs a row field key with its display label.
	Column struct {
		Key   string `json:"key"`
		Label string `json:"label"`
	}

	// Row is one shipment record, pinned to one calendar date. Numeric
	// fields stay strings to preserve user-typed precision and to keep
	// "unset" distinct from zero.
	Row struct {
		ID            string `json:"id"`
		LoadDate      string `json:"loadDate"`
		LoadPlace     string `json:"loadPlace"`
		Vehicle       string `json:"vehicle"`
		Model         string `json:"model"`
		LoadNetWeight string `json:"loadNetWeight"`
		UnloadDate    string `json:"unloadDate"`
		UnloadPlace   string `json:"unloadPlace"`
		UnloadTons    string `json:"unloadTons"`
		Freight       string `json:"freight"`
		SettleTons    string `json:"settleTons"`
		Amount        string `json:"amount"`
	}

	// Table is one ledger spanning a contiguous date range, persisted as
	// one JSON document keyed by ID. Meta keeps unknown keys from older
	// documents intact; meta["startDate"] mirrors StartDate.
	Table struct {
		ID        string         `json:"id"`
		Name      string         `json:"name"`
		StartDate string         `json:"startDate"`
		Columns   []Column       `json:"columns"`
		Rows      []Row          `json:"rows"`
		CreatedAt string         `json:"createdAt"`
		UpdatedAt string         `json:"updatedAt"`
		Meta      map[string]any `json:"meta"`
	}

	// Defaults carries the configured fallback values the row engine and
	// table lifecycle need. The application config owns the full set of
	// settings; core only ever sees this slice of it.
	Defaults struct {
		Vehicle string
		Model   string
	}
)

// FixedColumns is the canonical column order for editing and export.
// Labels are the localized headers consuming spreadsheet tools expect.
var FixedColumns = []Column{
	{Key: "loadDate", Label: "装车日期"},
	{Key: "loadPlace", Label: "装车地"},
	{Key: "vehicle", Label: "车辆"},
	{Key: "model", Label: "产品型号"},
	{Key: "loadNetWeight", Label: "装车净重"},
	{Key: "unloadDate", Label: "卸车日期"},
	{Key: "unloadPlace", Label: "卸货地"},
	{Key: "unloadTons", Label: "卸车数（吨）"},
	{Key: "freight", Label: "运费"},
	{Key: "settleTons", Label: "结算吨数"},
	{Key: "amount", Label: "金额"},
}

// timeNow is stubbed in tests that pin "today".
var timeNow = time.Now

// TodayISO returns the current calendar date in DateLayout.
func TodayISO() string {
	return timeNow().Format(DateLayout)
}

// NowISO returns the current timestamp in TimestampLayout.
func NowISO() string {
	return timeNow().Format(TimestampLayout)
}

// ParseISODate parses a calendar date in DateLayout. The second return is
// false for blank or unparsable input.
func ParseISODate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Get returns the row's value for a fixed column key, or "" for a key the
// row does not carry.
func (r Row) Get(key string) string {
	switch key {
	case "loadDate":
		return r.LoadDate
	case "loadPlace":
		return r.LoadPlace
	case "vehicle":
		return r.Vehicle
	case "model":
		return r.Model
	case "loadNetWeight":
		return r.LoadNetWeight
	case "unloadDate":
		return r.UnloadDate
	case "unloadPlace":
		return r.UnloadPlace
	case "unloadTons":
		return r.UnloadTons
	case "freight":
		return r.Freight
	case "settleTons":
		return r.SettleTons
	case "amount":
		return r.Amount
	default:
		return ""
	}
}

// Set assigns the row's value for a fixed column key. It reports false for
// keys outside the fixed column set; "id" is not settable through here.
func (r *Row) Set(key, value string) bool {
	switch key {
	case "loadDate":
		r.LoadDate = value
	case "loadPlace":
		r.LoadPlace = value
	case "vehicle":
		r.Vehicle = value
	case "model":
		r.Model = value
	case "loadNetWeight":
		r.LoadNetWeight = value
	case "unloadDate":
		r.UnloadDate = value
	case "unloadPlace":
		r.UnloadPlace = value
	case "unloadTons":
		r.UnloadTons = value
	case "freight":
		r.Freight = value
	case "settleTons":
		r.SettleTons = value
	case "amount":
		r.Amount = value
	default:
		return false
	}
	return true
}

// IsFixedColumn reports whether key names one of the fixed columns.
func IsFixedColumn(key string) bool {
	for _, c := range FixedColumns {
		if c.Key == key {
			return true
		}
	}
	return false
}

// CloneMeta returns a shallow copy of the table's meta map, never nil.
func (t Table) CloneMeta() map[string]any {
	out := make(map[string]any, len(t.Meta)+1)
	for k, v := range t.Meta {
		out[k] = v
	}
	return out
}
