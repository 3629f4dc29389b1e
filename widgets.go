package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

// LevelSource returns a 0-100 reading.
type LevelSource func(ctx context.Context) (int, error)

type Clock struct {
	icon   string
	layout string
	now    func() time.Time
}

func NewClock(cfg *Config) *Clock {
	return &Clock{
		icon:   filepath.Join(cfg.IconDir, "clock.xbm"),
		layout: cfg.ClockFormat,
		now:    time.Now,
	}
}

func (c *Clock) Name() string { return "clock" }

func (c *Clock) Render(_ context.Context, s *Sink) error {
	s.Icon(c.icon)
	s.Text(" " + c.now().Format(c.layout))
	return nil
}

// Gauge draws size segments, the first size*percent/100 in the active color.
type Gauge struct {
	Size     int
	Percent  int
	Icon     string
	Active   string
	Inactive string
}

func newGauge(cfg *Config, size, percent int) Gauge {
	return Gauge{
		Size:     size,
		Percent:  percent,
		Icon:     filepath.Join(cfg.IconDir, "bar.xbm"),
		Active:   cfg.Colors.BarActive,
		Inactive: cfg.Colors.BarInactive,
	}
}

func (g Gauge) Name() string { return "gauge" }

func (g Gauge) activeSegments() int {
	percent := min(max(g.Percent, 0), 100)
	return g.Size * percent / 100
}

func (g Gauge) Render(_ context.Context, s *Sink) error {
	active := g.activeSegments()
	s.Text(" ")
	s.FgColor(g.Active)
	for i := 0; i < active; i++ {
		s.RawIcon(g.Icon)
	}
	s.FgColor(g.Inactive)
	for i := active; i < g.Size; i++ {
		s.RawIcon(g.Icon)
	}
	s.FgColor("")
	return nil
}

type Volume struct {
	cfg   *Config
	table RangeTable
	query Query
}

func NewVolume(cfg *Config, query Query) *Volume {
	return &Volume{cfg: cfg, table: volumeTable(cfg.IconDir), query: query}
}

func (v *Volume) Name() string { return "volume" }

func (v *Volume) Render(ctx context.Context, s *Sink) error {
	out, err := v.query(ctx)
	if err != nil {
		return err
	}
	level, mute, err := parseMixer(out)
	if err != nil {
		return err
	}

	icon, text := v.table[0].Icon, "M"
	if mute != "off" {
		icon = v.table.Lookup(level)
		text = fmt.Sprintf(" %d%%", level)
	}
	s.Icon(icon)
	s.Text(text)

	if v.cfg.VolumeBar > 0 {
		return newGauge(v.cfg, v.cfg.VolumeBar, level).Render(ctx, s)
	}
	return nil
}

type Battery struct {
	table RangeTable
	level LevelSource
}

func NewBattery(cfg *Config, level LevelSource) *Battery {
	return &Battery{table: batteryTable(cfg.IconDir), level: level}
}

func (b *Battery) Name() string { return "battery" }

func (b *Battery) Render(ctx context.Context, s *Sink) error {
	level, err := b.level(ctx)
	if err != nil {
		return err
	}
	s.Icon(b.table.Lookup(level))
	s.Text(fmt.Sprintf(" %d%%", level))
	return nil
}

type CPU struct {
	table   RangeTable
	percent func(ctx context.Context) (float64, error)
}

func NewCPU(cfg *Config, percent func(ctx context.Context) (float64, error)) *CPU {
	return &CPU{table: loadTable(cfg.IconDir), percent: percent}
}

func (c *CPU) Name() string { return "cpu" }

func (c *CPU) Render(ctx context.Context, s *Sink) error {
	usage, err := c.percent(ctx)
	if err != nil {
		return err
	}
	s.Icon(c.table.Lookup(int(usage)))
	s.Text(fmt.Sprintf(" %.1f%%", usage))
	return nil
}

type MemoryStat struct {
	UsedPercent float64
	Used        uint64
}

type Memory struct {
	table RangeTable
	usage func(ctx context.Context) (MemoryStat, error)
}

func NewMemory(cfg *Config, usage func(ctx context.Context) (MemoryStat, error)) *Memory {
	return &Memory{table: loadTable(cfg.IconDir), usage: usage}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Render(ctx context.Context, s *Sink) error {
	stat, err := m.usage(ctx)
	if err != nil {
		return err
	}
	s.Icon(m.table.Lookup(int(stat.UsedPercent)))
	s.Text(fmt.Sprintf(" %.1f%% (%s)", stat.UsedPercent, humanize.IBytes(stat.Used)))
	return nil
}

// Separator draws the bar bitmap between two widgets.
type Separator struct{}

func (Separator) Name() string { return "sep" }

func (Separator) Render(_ context.Context, s *Sink) error {
	s.Bar()
	return nil
}

// Position moves the cursor: to the right edge minus Offset, or by Offset pixels.
type Position struct {
	Right  bool
	Offset int
}

func (p Position) Name() string {
	if p.Right {
		return "right"
	}
	return "gap"
}

func (p Position) Render(_ context.Context, s *Sink) error {
	if p.Right {
		s.PositionRight(p.Offset)
		return nil
	}
	s.Position(fmt.Sprintf("%+d", p.Offset))
	return nil
}
