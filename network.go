package main

import (
	"context"
	"path/filepath"
	"strings"
)

type Network struct {
	icon   string
	routes Query
	addr   AddrSource
}

func NewNetwork(cfg *Config, routes Query, addr AddrSource) *Network {
	return &Network{
		icon:   filepath.Join(cfg.IconDir, "cable.xbm"),
		routes: routes,
		addr:   addr,
	}
}

func (n *Network) Name() string { return "network" }

func (n *Network) Render(ctx context.Context, s *Sink) error {
	out, err := n.routes(ctx)
	if err != nil {
		return err
	}
	iface, err := parseDefaultInterface(out)
	if err != nil {
		return err
	}
	ip, err := n.addr(ctx, strings.TrimSpace(iface))
	if err != nil {
		return err
	}
	s.Icon(n.icon)
	s.Text(" " + ip)
	return nil
}

type Wifi struct {
	table  RangeTable
	iface  string
	ssid   Query
	report Query
}

func NewWifi(cfg *Config, ssid, report Query) *Wifi {
	return &Wifi{
		table:  wifiTable(cfg.IconDir),
		iface:  cfg.WifiInterface,
		ssid:   ssid,
		report: report,
	}
}

func (w *Wifi) Name() string { return "wifi" }

// Render draws nothing when no SSID is associated.
func (w *Wifi) Render(ctx context.Context, s *Sink) error {
	out, err := w.ssid(ctx)
	if err != nil {
		// iwgetid exits non-zero when not associated
		return nil
	}
	ssid := parseSSID(out)
	if ssid == "" {
		return nil
	}

	report, err := w.report(ctx)
	if err != nil {
		return err
	}
	raw, err := parseWirelessLevel(report, w.iface)
	if err != nil {
		return err
	}
	s.Icon(w.table.Lookup(wifiLevel(raw)))
	s.Text(" " + ssid)
	return nil
}
