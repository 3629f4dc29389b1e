package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/distatus/battery"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// Query returns the raw text output of an external source.
type Query func(ctx context.Context) (string, error)

type runner struct {
	timeout time.Duration
}

func commandRunner(timeout time.Duration) runner {
	return runner{timeout: timeout}
}

func (r runner) output(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, name, err)
	}
	if len(strings.TrimSpace(string(out))) == 0 {
		return "", fmt.Errorf("%w: %s: no output", ErrSourceUnavailable, name)
	}
	return string(out), nil
}

func (r runner) query(name string, args ...string) Query {
	return func(ctx context.Context) (string, error) {
		return r.output(ctx, name, args...)
	}
}

var (
	mixerLevelRe = regexp.MustCompile(`\[(\d+)%\]`)
	mixerMuteRe  = regexp.MustCompile(`\[(on|off)\]`)
	upowerRe     = regexp.MustCompile(`percentage:\s*(\d+)%`)
	inetRe       = regexp.MustCompile(`inet\s+(?:addr:)?([0-9.]+)`)
	ssidRe       = regexp.MustCompile(`"([^"]+)"`)
)

// parseMixer extracts the level and the on/off switch from amixer output.
func parseMixer(out string) (int, string, error) {
	level := mixerLevelRe.FindStringSubmatch(out)
	if level == nil {
		return 0, "", fmt.Errorf("%w: no volume level in mixer output", ErrParse)
	}
	mute := mixerMuteRe.FindStringSubmatch(out)
	if mute == nil {
		return 0, "", fmt.Errorf("%w: no mute switch in mixer output", ErrParse)
	}
	n, err := strconv.Atoi(level[1])
	if err != nil {
		return 0, "", fmt.Errorf("%w: volume level %q: %w", ErrParse, level[1], err)
	}
	return n, mute[1], nil
}

func parseUpowerPercentage(out string) (int, error) {
	m := upowerRe.FindStringSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("%w: no percentage in upower output", ErrParse)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: battery percentage %q: %w", ErrParse, m[1], err)
	}
	return n, nil
}

func upowerLevel(q Query) LevelSource {
	return func(ctx context.Context) (int, error) {
		out, err := q(ctx)
		if err != nil {
			return 0, err
		}
		return parseUpowerPercentage(out)
	}
}

func sysfsBatteryLevel(ctx context.Context) (int, error) {
	batteries, err := battery.GetAll()
	if len(batteries) == 0 {
		if err == nil {
			err = errors.New("no batteries found")
		}
		return 0, fmt.Errorf("%w: battery: %w", ErrSourceUnavailable, err)
	}

	bat := batteries[0]
	if bat == nil || bat.Full <= 0 {
		return 0, fmt.Errorf("%w: battery reports no capacity", ErrSourceUnavailable)
	}
	return int(bat.Current / bat.Full * 100), nil
}

// parseDefaultInterface returns the interface of the default route from
// `route` or `route -n` output.
func parseDefaultInterface(out string) (string, error) {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if fields[0] == "default" || fields[0] == "0.0.0.0" {
			return fields[len(fields)-1], nil
		}
	}
	return "", fmt.Errorf("%w: no default route", ErrParse)
}

func parseIPv4(out string) (string, error) {
	m := inetRe.FindStringSubmatch(out)
	if m == nil || m[1] == "" {
		return "", fmt.Errorf("%w: no inet address in interface output", ErrParse)
	}
	return m[1], nil
}

// AddrSource resolves the IPv4 address of an interface.
type AddrSource func(ctx context.Context, iface string) (string, error)

// interfaceAddr asks ifconfig first and falls back to the kernel interface
// list when ifconfig is not installed.
func interfaceAddr(r runner) AddrSource {
	return func(ctx context.Context, iface string) (string, error) {
		out, err := r.output(ctx, "ifconfig", iface)
		if err == nil {
			return parseIPv4(out)
		}
		addr, perr := kernelInterfaceAddr(ctx, iface)
		if perr != nil {
			return "", errors.Join(err, perr)
		}
		return addr, nil
	}
}

func kernelInterfaceAddr(ctx context.Context, iface string) (string, error) {
	ifaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: interfaces: %w", ErrSourceUnavailable, err)
	}
	for _, i := range ifaces {
		if i.Name != iface {
			continue
		}
		for _, a := range i.Addrs {
			ip, _, err := net.ParseCIDR(a.Addr)
			if err != nil {
				ip = net.ParseIP(a.Addr)
			}
			if ip != nil && ip.To4() != nil {
				return ip.String(), nil
			}
		}
	}
	return "", fmt.Errorf("%w: no ipv4 address on %s", ErrParse, iface)
}

func readWireless(ctx context.Context) (string, error) {
	data, err := os.ReadFile("/proc/net/wireless")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return string(data), nil
}

// parseWirelessLevel reads the signal level column of a /proc/net/wireless
// report. The first two lines are headers. An empty iface picks the first row.
func parseWirelessLevel(report, iface string) (int, error) {
	lines := strings.Split(report, "\n")
	if len(lines) < 3 {
		return 0, fmt.Errorf("%w: wireless report has no interfaces", ErrParse)
	}
	for _, line := range lines[2:] {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		if iface != "" && strings.TrimSuffix(fields[0], ":") != iface {
			continue
		}
		raw := strings.TrimSuffix(fields[3], ".")
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: signal level %q: %w", ErrParse, raw, err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: interface %q not in wireless report", ErrParse, iface)
}

// wifiLevel maps a dBm reading onto 0-100, with -70 dBm as 100.
func wifiLevel(raw int) int {
	return 100 * raw / -70
}

func parseSSID(out string) string {
	m := ssidRe.FindStringSubmatch(out)
	if m == nil {
		return ""
	}
	return m[1]
}

func cpuPercent(ctx context.Context) (float64, error) {
	percent, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, fmt.Errorf("%w: cpu: %w", ErrSourceUnavailable, err)
	}
	if len(percent) == 0 {
		return 0, fmt.Errorf("%w: cpu: no samples", ErrSourceUnavailable)
	}
	return math.Round(percent[0]*10) / 10, nil
}

func memoryUsage(ctx context.Context) (MemoryStat, error) {
	info, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStat{}, fmt.Errorf("%w: memory: %w", ErrSourceUnavailable, err)
	}
	return MemoryStat{
		UsedPercent: math.Round(info.UsedPercent*10) / 10,
		Used:        info.Used,
	}, nil
}
