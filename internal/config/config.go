// Package config defines the application's persisted settings document.
// The config lives as a single JSON file; loading backfills every missing
// or wrong-typed key from its documented default individually, and unknown
// keys survive a load/save round trip untouched.
package config

import (
	"encoding/json"

	"freightbook/internal/core"
)

// Defaults, one per field. A key missing from the stored document, or
// present with the wrong JSON type, falls back to these.
const (
	DefaultRecentLimit     = 12
	DefaultAutosaveMs      = 600
	DefaultInitialRows     = 31
	DefaultVehicleFallback = "蒙J87721"
	DefaultModelFallback   = "PAC"
)

var (
	defaultLoadPlaces   = []string{"装车地A", "装车地B", "装车地C"}
	defaultUnloadPlaces = []string{"卸货地A", "卸货地B", "卸货地C"}
)

// Config is the process-wide settings document.
type Config struct {
	// RecentTableIDs is the bounded most-recently-used table list,
	// newest first.
	RecentTableIDs []string `json:"recentTableIds"`

	// RecentLimit bounds RecentTableIDs (minimum 1).
	RecentLimit int `json:"recentLimit"`

	// AutosaveMs is the debounce delay for coalesced autosaves.
	AutosaveMs int `json:"autosaveMs"`

	// InitialRows is the row count offered when creating a table.
	InitialRows int `json:"initialRows"`

	// DefaultVehicle and DefaultModel fill blank row cells.
	DefaultVehicle string `json:"defaultVehicle"`
	DefaultModel   string `json:"defaultModel"`

	// LoadPlaces and UnloadPlaces seed the place dropdowns.
	LoadPlaces   []string `json:"loadPlaces"`
	UnloadPlaces []string `json:"unloadPlaces"`

	// UpdatedAt is stamped on every save.
	UpdatedAt string `json:"updatedAt"`

	// extra holds keys this version does not know about; they are
	// written back verbatim so newer documents are not truncated.
	extra map[string]json.RawMessage
}

// Default returns a config populated entirely from the documented defaults.
func Default() Config {
	return Config{
		RecentTableIDs: []string{},
		RecentLimit:    DefaultRecentLimit,
		AutosaveMs:     DefaultAutosaveMs,
		InitialRows:    DefaultInitialRows,
		DefaultVehicle: DefaultVehicleFallback,
		DefaultModel:   DefaultModelFallback,
		LoadPlaces:     append([]string(nil), defaultLoadPlaces...),
		UnloadPlaces:   append([]string(nil), defaultUnloadPlaces...),
		UpdatedAt:      core.NowISO(),
	}
}

// FromJSON builds a config from a stored document. The defaulting pass is
// per-key: each known key that is present with the right type overrides
// its default, everything else keeps the default, and unrecognized keys
// are retained for the next save. A document that is not a JSON object
// yields pure defaults.
func FromJSON(data []byte) Config {
	cfg := Default()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return cfg
	}

	takeStrings := func(key string, dst *[]string) {
		if msg, ok := raw[key]; ok {
			var v []string
			if json.Unmarshal(msg, &v) == nil && v != nil {
				*dst = v
			}
			delete(raw, key)
		}
	}
	takeInt := func(key string, dst *int) {
		if msg, ok := raw[key]; ok {
			var v int
			if json.Unmarshal(msg, &v) == nil {
				*dst = v
			}
			delete(raw, key)
		}
	}
	takeString := func(key string, dst *string) {
		if msg, ok := raw[key]; ok {
			var v string
			if json.Unmarshal(msg, &v) == nil {
				*dst = v
			}
			delete(raw, key)
		}
	}

	takeStrings("recentTableIds", &cfg.RecentTableIDs)
	takeInt("recentLimit", &cfg.RecentLimit)
	takeInt("autosaveMs", &cfg.AutosaveMs)
	takeInt("initialRows", &cfg.InitialRows)
	takeString("defaultVehicle", &cfg.DefaultVehicle)
	takeString("defaultModel", &cfg.DefaultModel)
	takeStrings("loadPlaces", &cfg.LoadPlaces)
	takeStrings("unloadPlaces", &cfg.UnloadPlaces)
	takeString("updatedAt", &cfg.UpdatedAt)

	if len(raw) > 0 {
		cfg.extra = raw
	}
	return cfg
}

// ToJSON renders the config as its stored document, known keys plus any
// retained unknown ones.
func (c Config) ToJSON() ([]byte, error) {
	doc := make(map[string]any, len(c.extra)+9)
	for k, v := range c.extra {
		doc[k] = v
	}
	doc["recentTableIds"] = c.RecentTableIDs
	doc["recentLimit"] = c.RecentLimit
	doc["autosaveMs"] = c.AutosaveMs
	doc["initialRows"] = c.InitialRows
	doc["defaultVehicle"] = c.DefaultVehicle
	doc["defaultModel"] = c.DefaultModel
	doc["loadPlaces"] = c.LoadPlaces
	doc["unloadPlaces"] = c.UnloadPlaces
	doc["updatedAt"] = c.UpdatedAt
	return json.MarshalIndent(doc, "", "  ")
}

// RowDefaults is the slice of config the core's row engine needs.
func (c Config) RowDefaults() core.Defaults {
	return core.Defaults{Vehicle: c.DefaultVehicle, Model: c.DefaultModel}
}

// TouchRecent moves tableID to the front of the recent list, removing any
// earlier occurrence, and truncates to the configured limit. A zero limit
// means the default; the floor is 1.
func (c *Config) TouchRecent(tableID string) {
	recents := make([]string, 0, len(c.RecentTableIDs)+1)
	recents = append(recents, tableID)
	for _, id := range c.RecentTableIDs {
		if id != tableID {
			recents = append(recents, id)
		}
	}
	limit := c.RecentLimit
	if limit == 0 {
		limit = DefaultRecentLimit
	}
	if limit < 1 {
		limit = 1
	}
	if len(recents) > limit {
		recents = recents[:limit]
	}
	c.RecentTableIDs = recents
}

// ForgetRecent removes tableID from the recent list, used after a delete.
func (c *Config) ForgetRecent(tableID string) {
	kept := c.RecentTableIDs[:0]
	for _, id := range c.RecentTableIDs {
		if id != tableID {
			kept = append(kept, id)
		}
	}
	c.RecentTableIDs = kept
}

// AutosaveDelayMs returns the effective autosave debounce delay, falling
// back to the default when the stored value is missing or nonsensical.
func (c Config) AutosaveDelayMs() int {
	if c.AutosaveMs <= 0 {
		return DefaultAutosaveMs
	}
	return c.AutosaveMs
}

// EffectiveInitialRows returns the creation row count, floor 1.
func (c Config) EffectiveInitialRows() int {
	if c.InitialRows < 1 {
		return DefaultInitialRows
	}
	return c.InitialRows
}
