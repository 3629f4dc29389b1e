package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
)

type WorkspaceEntry struct {
	Num     int    `json:"num"`
	Name    string `json:"name"`
	Focused bool   `json:"focused"`
	Visible bool   `json:"visible"`
}

type WorkspaceSource func(ctx context.Context) ([]WorkspaceEntry, error)

// parseWorkspaces decodes i3 get_workspaces output. Garbage yields an empty list.
func parseWorkspaces(data []byte) []WorkspaceEntry {
	var entries []WorkspaceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return []WorkspaceEntry{}
	}
	return entries
}

func i3Workspaces(r runner) WorkspaceSource {
	return func(ctx context.Context) ([]WorkspaceEntry, error) {
		out, err := r.output(ctx, "i3-msg", "-t", "get_workspaces")
		if err != nil {
			return nil, err
		}
		return parseWorkspaces([]byte(out)), nil
	}
}

type workspaceLook struct {
	icon string
	fg   string
	bg   string
}

type Workspaces struct {
	source  WorkspaceSource
	action  string
	focused workspaceLook
	visible workspaceLook
	idle    workspaceLook
}

// NewWorkspaces renders entries from source. action is a format string taking
// the workspace number, run when the entry is clicked.
func NewWorkspaces(cfg *Config, source WorkspaceSource, action string) *Workspaces {
	w := &Workspaces{
		source:  source,
		action:  action,
		focused: workspaceLook{icon: filepath.Join(cfg.IconDir, "circle_dot.xbm"), fg: cfg.Colors.Icon},
		visible: workspaceLook{icon: filepath.Join(cfg.IconDir, "circle.xbm"), fg: cfg.Colors.BarActive},
		idle:    workspaceLook{icon: filepath.Join(cfg.IconDir, "dot.xbm"), fg: cfg.Colors.BarInactive},
	}
	if cfg.Theme == ThemePlain {
		w.focused.fg, w.focused.bg = cfg.Colors.Background, cfg.Colors.Icon
		w.visible.fg = cfg.Colors.Foreground
		w.idle.fg = cfg.Colors.BarInactive
	}
	return w
}

func (w *Workspaces) Name() string { return "workspaces" }

func (w *Workspaces) look(e WorkspaceEntry) workspaceLook {
	switch {
	case e.Focused && e.Visible:
		return w.focused
	case e.Visible:
		return w.visible
	}
	return w.idle
}

func (w *Workspaces) Render(ctx context.Context, s *Sink) error {
	entries, err := w.source(ctx)
	if err != nil {
		return err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Num < entries[j].Num
	})

	for i, e := range entries {
		if i > 0 {
			s.Text(" ")
		}
		look := w.look(e)
		s.Position("+5")
		s.Click(1, fmt.Sprintf(w.action, e.Num))
		s.Text(" ")
		s.FgColor(look.fg)
		if look.bg != "" {
			s.BgColor(look.bg)
		}
		s.RawIcon(look.icon)
		s.Text(" ")
		if look.bg != "" {
			s.BgColor("")
		}
		s.FgColor("")
		s.ClickEnd()
	}
	return nil
}
