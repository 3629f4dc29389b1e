package main

import (
	"errors"
	"testing"
)

func TestParseModuleSpec(t *testing.T) {
	tests := []struct {
		raw  string
		kind string
		arg  int
	}{
		{"clock", "clock", 0},
		{" wifi ", "wifi", 0},
		{"right", "right", defaultRightOffset},
		{"right:180", "right", 180},
		{"gap:10", "gap", 10},
	}
	for _, tt := range tests {
		spec, err := parseModuleSpec(tt.raw)
		if err != nil {
			t.Fatalf("parseModuleSpec(%q): %v", tt.raw, err)
		}
		if spec.kind != tt.kind || spec.arg != tt.arg {
			t.Errorf("parseModuleSpec(%q) = %+v, want %s/%d", tt.raw, spec, tt.kind, tt.arg)
		}
	}

	for _, bad := range []string{"", "weather", "clock:1", "gap", "gap:wide", "right:x"} {
		if _, err := parseModuleSpec(bad); err == nil {
			t.Errorf("parseModuleSpec(%q) succeeded", bad)
		}
	}
}

func TestBuildWidgetsKeepsOrder(t *testing.T) {
	cfg := testConfig(t)
	cfg.Modules = []string{
		"workspaces", "right", "wifi", "sep", "network", "gap:12",
		"volume", "battery", "cpu", "memory", "clock",
	}
	cfg.BatteryBackend = "sysfs"

	widgets, err := buildWidgets(cfg, nil)
	if err != nil {
		t.Fatalf("buildWidgets: %v", err)
	}
	want := []string{
		"workspaces", "right", "wifi", "sep", "network", "gap",
		"volume", "battery", "cpu", "memory", "clock",
	}
	if len(widgets) != len(want) {
		t.Fatalf("got %d widgets, want %d", len(widgets), len(want))
	}
	for i, w := range widgets {
		if w.Name() != want[i] {
			t.Errorf("widget %d = %s, want %s", i, w.Name(), want[i])
		}
	}
}

func TestBuildWidgetsHyprlandWithoutClient(t *testing.T) {
	cfg := testConfig(t)
	cfg.Modules = []string{"workspaces"}
	cfg.WorkspaceBackend = "hyprland"

	if _, err := buildWidgets(cfg, nil); !errors.Is(err, ErrConfigInvalid) {
		t.Errorf("err = %v, want ErrConfigInvalid", err)
	}
}
