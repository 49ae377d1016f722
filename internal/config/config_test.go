package config

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFromJSONDefaultsPerKey(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want func(t *testing.T, cfg Config)
	}{
		{
			name: "empty object gets full defaults",
			doc:  `{}`,
			want: func(t *testing.T, cfg Config) {
				if cfg.RecentLimit != DefaultRecentLimit || cfg.AutosaveMs != DefaultAutosaveMs {
					t.Fatalf("defaults not applied: %+v", cfg)
				}
				if cfg.DefaultVehicle != DefaultVehicleFallback || cfg.DefaultModel != DefaultModelFallback {
					t.Fatalf("fallback values not applied: %+v", cfg)
				}
				if len(cfg.LoadPlaces) != 3 || len(cfg.UnloadPlaces) != 3 {
					t.Fatalf("place lists not seeded: %+v", cfg)
				}
			},
		},
		{
			name: "present keys override their default only",
			doc:  `{"recentLimit": 5, "defaultVehicle": "冀A12345"}`,
			want: func(t *testing.T, cfg Config) {
				if cfg.RecentLimit != 5 {
					t.Fatalf("recentLimit = %d", cfg.RecentLimit)
				}
				if cfg.DefaultVehicle != "冀A12345" {
					t.Fatalf("defaultVehicle = %q", cfg.DefaultVehicle)
				}
				if cfg.AutosaveMs != DefaultAutosaveMs || cfg.InitialRows != DefaultInitialRows {
					t.Fatalf("untouched keys lost their defaults: %+v", cfg)
				}
			},
		},
		{
			name: "wrong-typed key falls back individually",
			doc:  `{"recentLimit": "twelve", "recentTableIds": "not a list", "autosaveMs": 250}`,
			want: func(t *testing.T, cfg Config) {
				if cfg.RecentLimit != DefaultRecentLimit {
					t.Fatalf("recentLimit = %d", cfg.RecentLimit)
				}
				if len(cfg.RecentTableIDs) != 0 {
					t.Fatalf("recentTableIds = %v", cfg.RecentTableIDs)
				}
				if cfg.AutosaveMs != 250 {
					t.Fatalf("autosaveMs = %d", cfg.AutosaveMs)
				}
			},
		},
		{
			name: "non-object document yields pure defaults",
			doc:  `[1,2,3]`,
			want: func(t *testing.T, cfg Config) {
				if cfg.RecentLimit != DefaultRecentLimit {
					t.Fatalf("recentLimit = %d", cfg.RecentLimit)
				}
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.want(t, FromJSON([]byte(tc.doc)))
		})
	}
}

func TestConfigRoundTripKeepsUnknownKeys(t *testing.T) {
	doc := `{"recentLimit": 7, "themeColor": "dark", "nested": {"a": 1}}`
	cfg := FromJSON([]byte(doc))

	out, err := cfg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	var back map[string]json.RawMessage
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("round-trip unmarshal: %v", err)
	}
	if string(back["themeColor"]) != `"dark"` {
		t.Fatalf("themeColor lost: %s", back["themeColor"])
	}
	if _, ok := back["nested"]; !ok {
		t.Fatal("nested unknown key lost")
	}
	if string(back["recentLimit"]) != "7" {
		t.Fatalf("recentLimit = %s", back["recentLimit"])
	}
}

func TestTouchRecent(t *testing.T) {
	cfg := Default()
	cfg.RecentLimit = 3

	for _, id := range []string{"tbl_a", "tbl_b", "tbl_c", "tbl_d"} {
		cfg.TouchRecent(id)
	}
	want := []string{"tbl_d", "tbl_c", "tbl_b"}
	if !reflect.DeepEqual(cfg.RecentTableIDs, want) {
		t.Fatalf("recents = %v, want %v", cfg.RecentTableIDs, want)
	}

	// Re-touching moves to front without duplicating.
	cfg.TouchRecent("tbl_b")
	want = []string{"tbl_b", "tbl_d", "tbl_c"}
	if !reflect.DeepEqual(cfg.RecentTableIDs, want) {
		t.Fatalf("after re-touch: %v, want %v", cfg.RecentTableIDs, want)
	}
}

func TestTouchRecentLimitFloor(t *testing.T) {
	cfg := Default()
	cfg.RecentLimit = -2
	cfg.TouchRecent("tbl_a")
	cfg.TouchRecent("tbl_b")
	if !reflect.DeepEqual(cfg.RecentTableIDs, []string{"tbl_b"}) {
		t.Fatalf("recents = %v", cfg.RecentTableIDs)
	}

	cfg = Default()
	cfg.RecentLimit = 0
	for i := 0; i < 20; i++ {
		cfg.TouchRecent("tbl_" + string(rune('a'+i)))
	}
	if len(cfg.RecentTableIDs) != DefaultRecentLimit {
		t.Fatalf("zero limit should mean default, got %d entries", len(cfg.RecentTableIDs))
	}
}

func TestForgetRecent(t *testing.T) {
	cfg := Default()
	cfg.RecentTableIDs = []string{"tbl_a", "tbl_b", "tbl_c"}
	cfg.ForgetRecent("tbl_b")
	if !reflect.DeepEqual(cfg.RecentTableIDs, []string{"tbl_a", "tbl_c"}) {
		t.Fatalf("recents = %v", cfg.RecentTableIDs)
	}
}

func TestEffectiveValues(t *testing.T) {
	cfg := Config{}
	if cfg.AutosaveDelayMs() != DefaultAutosaveMs {
		t.Fatalf("AutosaveDelayMs = %d", cfg.AutosaveDelayMs())
	}
	if cfg.EffectiveInitialRows() != DefaultInitialRows {
		t.Fatalf("EffectiveInitialRows = %d", cfg.EffectiveInitialRows())
	}
	cfg.AutosaveMs = 50
	cfg.InitialRows = 7
	if cfg.AutosaveDelayMs() != 50 || cfg.EffectiveInitialRows() != 7 {
		t.Fatalf("explicit values not honored: %+v", cfg)
	}
}
