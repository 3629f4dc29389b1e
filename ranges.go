package main

import (
	"fmt"
	"path/filepath"
)

type RangeEntry struct {
	Threshold int
	Icon      string
}

// RangeTable maps a 0-100 reading to an icon. Entries are ascending.
type RangeTable []RangeEntry

func NewRangeTable(entries ...RangeEntry) (RangeTable, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty range table", ErrConfigInvalid)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Threshold <= entries[i-1].Threshold {
			return nil, fmt.Errorf("%w: range thresholds must be strictly increasing (%d after %d)",
				ErrConfigInvalid, entries[i].Threshold, entries[i-1].Threshold)
		}
	}
	return RangeTable(entries), nil
}

// Lookup returns the icon of the first entry whose threshold is >= value.
// When no entry qualifies the first entry's icon is returned, not the last.
func (t RangeTable) Lookup(value int) string {
	if len(t) == 0 {
		return ""
	}
	icon := t[0].Icon
	for _, e := range t {
		if value <= e.Threshold {
			icon = e.Icon
			break
		}
	}
	return icon
}

func iconPath(iconDir, name string) string {
	return filepath.Join(iconDir, name)
}

func volumeTable(dir string) RangeTable {
	return RangeTable{
		{0, iconPath(dir, "volm.xbm")},
		{25, iconPath(dir, "vol0.xbm")},
		{55, iconPath(dir, "vol1.xbm")},
		{85, iconPath(dir, "vol2.xbm")},
		{100, iconPath(dir, "vol3.xbm")},
	}
}

func batteryTable(dir string) RangeTable {
	return RangeTable{
		{20, iconPath(dir, "battery0.xbm")},
		{55, iconPath(dir, "battery1.xbm")},
		{75, iconPath(dir, "battery2.xbm")},
		{100, iconPath(dir, "battery3.xbm")},
	}
}

func wifiTable(dir string) RangeTable {
	return RangeTable{
		{20, iconPath(dir, "net0.xbm")},
		{55, iconPath(dir, "net1.xbm")},
		{75, iconPath(dir, "net2.xbm")},
		{100, iconPath(dir, "net3.xbm")},
	}
}

// cpu and memory share one table
func loadTable(dir string) RangeTable {
	return RangeTable{
		{25, iconPath(dir, "load0.xbm")},
		{50, iconPath(dir, "load1.xbm")},
		{75, iconPath(dir, "load2.xbm")},
		{100, iconPath(dir, "load3.xbm")},
	}
}

// iconFiles lists every bitmap the widgets reference, for config validation.
func iconFiles() []string {
	return []string{
		"bar.xbm", "clock.xbm", "cable.xbm",
		"circle.xbm", "circle_dot.xbm", "dot.xbm",
		"volm.xbm", "vol0.xbm", "vol1.xbm", "vol2.xbm", "vol3.xbm",
		"battery0.xbm", "battery1.xbm", "battery2.xbm", "battery3.xbm",
		"net0.xbm", "net1.xbm", "net2.xbm", "net3.xbm",
		"load0.xbm", "load1.xbm", "load2.xbm", "load3.xbm",
	}
}
