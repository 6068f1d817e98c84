package render

import (
	"encoding/json"
	"math"
	"testing"
)

func TestTruthyAndHasContent(t *testing.T) {
	tests := []struct {
		name       string
		value      any
		truthy     bool
		hasContent bool
	}{
		{"nil", nil, false, false},
		{"false", false, false, false},
		{"true", true, true, true},
		{"empty string", "", false, false},
		{"string", "x", true, true},
		{"zero", 0, false, true},
		{"zero float", 0.0, false, true},
		{"zero json number", json.Number("0"), false, true},
		{"nan", math.NaN(), false, false},
		{"number", 3, true, true},
		{"empty slice", []any{}, true, true},
		{"object", map[string]any{}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truthy(tt.value); got != tt.truthy {
				t.Errorf("Truthy = %v, want %v", got, tt.truthy)
			}
			if got := HasContent(tt.value); got != tt.hasContent {
				t.Errorf("HasContent = %v, want %v", got, tt.hasContent)
			}
		})
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"s", "s"},
		{true, "true"},
		{42, "42"},
		{int64(-7), "-7"},
		{1.5, "1.5"},
		{100.0, "100"},
		{math.Copysign(0, -1), "0"},
		{1e21, "1e+21"},
		{1e-7, "1e-7"},
		{json.Number("2.50"), "2.5"},
		{float32(0.25), "0.25"},
	}

	for _, tt := range tests {
		if got := ToString(tt.value); got != tt.want {
			t.Errorf("ToString(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestJSParamsOrder(t *testing.T) {
	var p JSParams
	p.Set("b", map[string]any{})
	p.Set("a", map[string]any{"x": "<y>"})
	p.Set("b", true)

	got, err := EncodeJSON(&p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `{"b":true,"a":{"x":"<y>"}}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if p.Len() != 2 {
		t.Errorf("Len = %d", p.Len())
	}
}

func TestModsAndAttrsSet(t *testing.T) {
	mods := Mods(nil).Set("a", 1).Set("b", 2).Set("a", 3)
	if len(mods) != 2 {
		t.Fatalf("len = %d", len(mods))
	}
	if v, _ := mods.Get("a"); v != 3 {
		t.Errorf("a = %v", v)
	}

	attrs := Attrs{{Name: "id", Value: "x"}}.Set("id", "y").Set("title", "t")
	if v, ok := attrs.Get("id"); !ok || v != "y" {
		t.Errorf("id = %v", v)
	}
	if attrs[1].Name != "title" {
		t.Errorf("order = %v", attrs)
	}
}
