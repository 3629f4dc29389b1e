package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Widget is one status segment. Render queries its source and appends markup
// to the sink; on error the caller discards whatever was appended.
type Widget interface {
	Name() string
	Render(ctx context.Context, s *Sink) error
}

const defaultRightOffset = 220

type moduleSpec struct {
	kind string
	arg  int
}

func parseModuleSpec(raw string) (moduleSpec, error) {
	kind, argStr, hasArg := strings.Cut(strings.TrimSpace(raw), ":")
	spec := moduleSpec{kind: kind}

	switch kind {
	case "clock", "volume", "battery", "workspaces", "network", "wifi", "cpu", "memory", "sep":
		if hasArg {
			return spec, fmt.Errorf("module %q takes no argument", raw)
		}
		return spec, nil
	case "right", "gap":
		if !hasArg {
			if kind == "gap" {
				return spec, fmt.Errorf("module %q needs a pixel argument", raw)
			}
			spec.arg = defaultRightOffset
			return spec, nil
		}
		n, err := strconv.Atoi(argStr)
		if err != nil {
			return spec, fmt.Errorf("module %q: bad pixel argument: %v", raw, err)
		}
		spec.arg = n
		return spec, nil
	}
	return spec, fmt.Errorf("unknown module %q", raw)
}

// buildWidgets turns the configured module list into widgets wired to the real
// system sources.
func buildWidgets(cfg *Config, hypr *HyprlandClient) ([]Widget, error) {
	cmd := commandRunner(cfg.CommandTimeout)

	widgets := make([]Widget, 0, len(cfg.Modules))
	for _, raw := range cfg.Modules {
		spec, err := parseModuleSpec(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
		}

		var w Widget
		switch spec.kind {
		case "clock":
			w = NewClock(cfg)
		case "volume":
			w = NewVolume(cfg, cmd.query("amixer", "sget", "Master"))
		case "battery":
			level := upowerLevel(cmd.query("upower", "-i", cfg.BatteryDevice))
			if cfg.BatteryBackend == "sysfs" {
				level = sysfsBatteryLevel
			}
			w = NewBattery(cfg, level)
		case "workspaces":
			source, action := i3Workspaces(cmd), "i3-msg workspace %d"
			if cfg.WorkspaceBackend == "hyprland" {
				if hypr == nil {
					return nil, fmt.Errorf("%w: workspace_backend hyprland but not running in hyprland", ErrConfigInvalid)
				}
				source, action = hypr.WorkspaceEntries, "hyprctl dispatch workspace %d"
			}
			w = NewWorkspaces(cfg, source, action)
		case "network":
			w = NewNetwork(cfg, cmd.query("route", "-n"), interfaceAddr(cmd))
		case "wifi":
			w = NewWifi(cfg, cmd.query("iwgetid"), readWireless)
		case "cpu":
			w = NewCPU(cfg, cpuPercent)
		case "memory":
			w = NewMemory(cfg, memoryUsage)
		case "sep":
			w = Separator{}
		case "right":
			w = Position{Right: true, Offset: spec.arg}
		case "gap":
			w = Position{Offset: spec.arg}
		}
		widgets = append(widgets, w)
	}
	return widgets, nil
}
