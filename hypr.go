package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"pkt.systems/pslog"
)

const hyprlandCommandTimeout = 2 * time.Second

type HyprlandWorkspace struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Monitor string `json:"monitor"`
	Windows int    `json:"windows"`
}

type HyprlandMonitor struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	ActiveWorkspace struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"activeWorkspace"`
	Focused bool `json:"focused"`
}

type HyprlandEvent struct {
	Type string
	Data []string
}

type HyprlandClient struct {
	socketDir string
	eventConn net.Conn
	eventMux  sync.RWMutex
	listeners []chan HyprlandEvent
}

func NewHyprlandClient() (*HyprlandClient, error) {
	signature := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")

	if signature == "" {
		return nil, fmt.Errorf("not running in hyprland")
	}

	return &HyprlandClient{
		socketDir: hyprlandSocketDir(signature),
		listeners: make([]chan HyprlandEvent, 0),
	}, nil
}

// hyprlandSocketDir prefers $XDG_RUNTIME_DIR/hypr and falls back to /tmp/hypr
// used by older releases.
func hyprlandSocketDir(signature string) string {
	if runtime := os.Getenv("XDG_RUNTIME_DIR"); runtime != "" {
		dir := filepath.Join(runtime, "hypr", signature)
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	return filepath.Join("/tmp", "hypr", signature)
}

func (hc *HyprlandClient) sendCommand(ctx context.Context, command string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, hyprlandCommandTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", filepath.Join(hc.socketDir, ".socket.sock"))
	if err != nil {
		return nil, fmt.Errorf("%w: connect to hyprland: %w", ErrSourceUnavailable, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := conn.Write([]byte(command)); err != nil {
		return nil, fmt.Errorf("%w: hyprland %s: %w", ErrSourceUnavailable, command, err)
	}

	data, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("%w: hyprland %s: %w", ErrSourceUnavailable, command, err)
	}
	return data, nil
}

func (hc *HyprlandClient) GetWorkspaces(ctx context.Context) ([]HyprlandWorkspace, error) {
	data, err := hc.sendCommand(ctx, "j/workspaces")
	if err != nil {
		return nil, err
	}

	var workspaces []HyprlandWorkspace
	if err := json.Unmarshal(data, &workspaces); err != nil {
		return nil, fmt.Errorf("%w: workspaces: %w", ErrParse, err)
	}
	return workspaces, nil
}

func (hc *HyprlandClient) GetMonitors(ctx context.Context) ([]HyprlandMonitor, error) {
	data, err := hc.sendCommand(ctx, "j/monitors")
	if err != nil {
		return nil, err
	}

	var monitors []HyprlandMonitor
	if err := json.Unmarshal(data, &monitors); err != nil {
		return nil, fmt.Errorf("%w: monitors: %w", ErrParse, err)
	}
	return monitors, nil
}

// WorkspaceEntries reports workspaces in the i3 shape. A workspace is visible
// when some monitor shows it and focused when the focused monitor does.
// Special workspaces (negative ids) are skipped. A reply that does not decode
// yields an empty list, as with i3.
func (hc *HyprlandClient) WorkspaceEntries(ctx context.Context) ([]WorkspaceEntry, error) {
	workspaces, err := hc.GetWorkspaces(ctx)
	if errors.Is(err, ErrParse) {
		return []WorkspaceEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	monitors, err := hc.GetMonitors(ctx)
	if errors.Is(err, ErrParse) {
		return []WorkspaceEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	visible := make(map[int]bool, len(monitors))
	focused := 0
	for _, mon := range monitors {
		visible[mon.ActiveWorkspace.ID] = true
		if mon.Focused {
			focused = mon.ActiveWorkspace.ID
		}
	}

	entries := make([]WorkspaceEntry, 0, len(workspaces))
	for _, ws := range workspaces {
		if ws.ID <= 0 {
			continue
		}
		entries = append(entries, WorkspaceEntry{
			Num:     ws.ID,
			Name:    ws.Name,
			Visible: visible[ws.ID],
			Focused: ws.ID == focused,
		})
	}
	return entries, nil
}

func (hc *HyprlandClient) StartEventListener(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", filepath.Join(hc.socketDir, ".socket2.sock"))
	if err != nil {
		return fmt.Errorf("failed to connect to event socket: %w", err)
	}
	hc.eventMux.Lock()
	hc.eventConn = conn
	hc.eventMux.Unlock()

	go hc.readEvents(ctx, conn)
	pslog.Ctx(ctx).Info("connected to hyprland event socket")
	return nil
}

func (hc *HyprlandClient) readEvents(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		if event := parseEvent(scanner.Text()); event != nil {
			hc.dispatchEvent(*event)
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		pslog.Ctx(ctx).Warn("hyprland event socket read failed", "err", err)
	}
}

func parseEvent(line string) *HyprlandEvent {
	eventType, data, ok := strings.Cut(line, ">>")
	if !ok {
		return nil
	}

	return &HyprlandEvent{
		Type: eventType,
		Data: strings.Split(data, ","),
	}
}

func (hc *HyprlandClient) dispatchEvent(event HyprlandEvent) {
	hc.eventMux.RLock()
	defer hc.eventMux.RUnlock()

	for _, listener := range hc.listeners {
		select {
		case listener <- event:
		default:
		}
	}
}

func (hc *HyprlandClient) Subscribe() chan HyprlandEvent {
	hc.eventMux.Lock()
	defer hc.eventMux.Unlock()

	ch := make(chan HyprlandEvent, 100)
	hc.listeners = append(hc.listeners, ch)
	return ch
}

func (hc *HyprlandClient) Unsubscribe(ch chan HyprlandEvent) {
	hc.eventMux.Lock()
	defer hc.eventMux.Unlock()

	for i, listener := range hc.listeners {
		if listener == ch {
			hc.listeners = append(hc.listeners[:i], hc.listeners[i+1:]...)
			close(ch)
			break
		}
	}
}

func (hc *HyprlandClient) Close() {
	hc.eventMux.Lock()
	defer hc.eventMux.Unlock()

	if hc.eventConn != nil {
		hc.eventConn.Close()
		hc.eventConn = nil
	}
	for _, ch := range hc.listeners {
		close(ch)
	}
	hc.listeners = nil
}
