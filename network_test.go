package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

const routeOutput = `Kernel IP routing table
Destination     Gateway         Genmask         Flags Metric Ref    Use Iface
0.0.0.0         192.168.1.1     0.0.0.0         UG    600    0        0 wlp2s0
192.168.1.0     0.0.0.0         255.255.255.0   U     600    0        0 wlp2s0
`

const wirelessReport = `Inter-| sta-|   Quality        |   Discarded packets               | Missed | WE
 face | tux | link level noise |  nwid  crypt   frag  retry   misc | beacon | 22
wlp2s0: 0000   70.  -40.  -256        0      0      0      0    179        0
`

func TestNetwork(t *testing.T) {
	cfg := testConfig(t)
	var asked string
	addr := func(_ context.Context, iface string) (string, error) {
		asked = iface
		return "192.168.1.23", nil
	}

	s := NewSink(cfg, nil, nil)
	if err := NewNetwork(cfg, fixed(routeOutput), addr).Render(context.Background(), s); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if asked != "wlp2s0" {
		t.Errorf("address asked for %q, want wlp2s0", asked)
	}
	if got := textOf(s.Tokens()); got != " 192.168.1.23" {
		t.Errorf("text = %q", got)
	}
	if icons := iconsOf(s.Tokens()); len(icons) != 1 || icons[0] != filepath.Join(cfg.IconDir, "cable.xbm") {
		t.Errorf("icons = %v", icons)
	}
}

func TestNetworkNoDefaultRoute(t *testing.T) {
	cfg := testConfig(t)
	addr := func(context.Context, string) (string, error) { return "10.0.0.1", nil }
	routes := fixed("Kernel IP routing table\n192.168.1.0 0.0.0.0 255.255.255.0 U 0 0 0 eth0\n")

	err := NewNetwork(cfg, routes, addr).Render(context.Background(), NewSink(cfg, nil, nil))
	if !errors.Is(err, ErrParse) {
		t.Errorf("err = %v, want ErrParse", err)
	}
}

func TestWifi(t *testing.T) {
	cfg := testConfig(t)
	s := NewSink(cfg, nil, nil)

	w := NewWifi(cfg, fixed("wlp2s0    ESSID:\"home net\"\n"), fixed(wirelessReport))
	if err := w.Render(context.Background(), s); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := textOf(s.Tokens()); got != " home net" {
		t.Errorf("text = %q", got)
	}
	// -40 dBm maps to 57, bucket 75
	want := filepath.Join(cfg.IconDir, "net2.xbm")
	if icons := iconsOf(s.Tokens()); len(icons) != 1 || icons[0] != want {
		t.Errorf("icons = %v, want [%s]", icons, want)
	}
}

func TestWifiWithoutSSIDRendersNothing(t *testing.T) {
	cfg := testConfig(t)
	reportCalled := false
	report := func(context.Context) (string, error) {
		reportCalled = true
		return wirelessReport, nil
	}

	for name, ssid := range map[string]Query{
		"empty essid": fixed("wlp2s0    ESSID:\"\"\n"),
		"no quotes":   fixed("wlp2s0    ESSID:off/any\n"),
		"not running": failing(ErrSourceUnavailable),
	} {
		s := NewSink(cfg, nil, nil)
		if err := NewWifi(cfg, ssid, report).Render(context.Background(), s); err != nil {
			t.Errorf("%s: err = %v", name, err)
		}
		if s.Len() != 0 {
			t.Errorf("%s: rendered %d tokens, want none", name, s.Len())
		}
	}
	if reportCalled {
		t.Error("signal report read without an SSID")
	}
}

func TestWifiInterfaceSelection(t *testing.T) {
	cfg := testConfig(t)
	cfg.WifiInterface = "wlan1"
	report := wirelessReport + "wlan1: 0000   20.  -90.  -256        0      0      0      0      0        0\n"

	s := NewSink(cfg, nil, nil)
	if err := NewWifi(cfg, fixed(`"cafe"`), fixed(report)).Render(context.Background(), s); err != nil {
		t.Fatalf("Render: %v", err)
	}
	// -90 dBm maps to 128, past every threshold
	if icons := iconsOf(s.Tokens()); icons[0] != filepath.Join(cfg.IconDir, "net0.xbm") {
		t.Errorf("icons = %v", icons)
	}

	cfg.WifiInterface = "wlan9"
	err := NewWifi(cfg, fixed(`"cafe"`), fixed(report)).Render(context.Background(), NewSink(cfg, nil, nil))
	if !errors.Is(err, ErrParse) {
		t.Errorf("unknown interface err = %v, want ErrParse", err)
	}
}
