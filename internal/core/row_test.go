package core

import "testing"

var testDefaults = Defaults{Vehicle: "蒙J87721", Model: "PAC"}

func TestEnsureRowDefaults(t *testing.T) {
	cases := []struct {
		name        string
		row         Row
		wantVehicle string
		wantModel   string
	}{
		{"both blank", Row{}, "蒙J87721", "PAC"},
		{"whitespace counts as blank", Row{Vehicle: "  ", Model: "\t"}, "蒙J87721", "PAC"},
		{"existing values kept", Row{Vehicle: "冀A12345", Model: "XYZ"}, "冀A12345", "XYZ"},
		{"mixed", Row{Vehicle: "冀A12345"}, "冀A12345", "PAC"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EnsureRowDefaults(testDefaults, tc.row)
			if got.Vehicle != tc.wantVehicle || got.Model != tc.wantModel {
				t.Fatalf("got vehicle=%q model=%q, want %q/%q",
					got.Vehicle, got.Model, tc.wantVehicle, tc.wantModel)
			}
		})
	}
}

func TestEnsureRowDefaultsDoesNotMutateInput(t *testing.T) {
	in := Row{ID: "row_x"}
	_ = EnsureRowDefaults(testDefaults, in)
	if in.Vehicle != "" || in.Model != "" {
		t.Fatalf("input row was mutated: %+v", in)
	}
}

func TestComputeAmount(t *testing.T) {
	cases := []struct {
		freight string
		settle  string
		want    string
	}{
		{"100", "2.5", "250"},
		{"12.5", "4", "50"},
		{"0.1", "0.1", "0.01"},
		{"100", "", ""},
		{"", "2.5", ""},
		{"", "", ""},
		{"abc", "2.5", ""},
		{"100", "x", ""},
		{" 100 ", " 2.5 ", "250"},
	}
	for _, tc := range cases {
		row := Row{Freight: tc.freight, SettleTons: tc.settle}
		if got := ComputeAmount(row); got != tc.want {
			t.Fatalf("freight=%q settle=%q: expected %q, got %q",
				tc.freight, tc.settle, tc.want, got)
		}
	}
}

// Exact decimal math: 0.1 * 3 must not pick up binary float drift.
func TestComputeAmountNoFloatDrift(t *testing.T) {
	row := Row{Freight: "0.1", SettleTons: "3"}
	if got := ComputeAmount(row); got != "0.3" {
		t.Fatalf("expected 0.3, got %q", got)
	}
}
