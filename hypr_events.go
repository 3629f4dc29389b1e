package main

import (
	"context"
	"sync"
)

// workspaceEvents are the socket2 events after which the workspace widget may
// draw differently.
var workspaceEvents = map[string]bool{
	"workspace":          true,
	"workspacev2":        true,
	"focusedmon":         true,
	"createworkspace":    true,
	"createworkspacev2":  true,
	"destroyworkspace":   true,
	"destroyworkspacev2": true,
	"moveworkspace":      true,
	"moveworkspacev2":    true,
	"renameworkspace":    true,
}

// HyprlandEventHandler turns workspace activity on the event socket into wake
// signals for the poll loop.
type HyprlandEventHandler struct {
	client   *HyprlandClient
	events   chan HyprlandEvent
	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

func NewHyprlandEventHandler(client *HyprlandClient) *HyprlandEventHandler {
	return &HyprlandEventHandler{
		client: client,
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
	}
}

// WakeOnWorkspaceActivity returns a channel that receives whenever the
// workspace layout changes. Bursts collapse into a single pending wake.
func (h *HyprlandEventHandler) WakeOnWorkspaceActivity() <-chan struct{} {
	return h.wake
}

func (h *HyprlandEventHandler) Start(ctx context.Context) error {
	h.events = h.client.Subscribe()
	if err := h.client.StartEventListener(ctx); err != nil {
		h.client.Unsubscribe(h.events)
		h.events = nil
		return err
	}
	go h.forward()
	return nil
}

func (h *HyprlandEventHandler) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
		if h.events != nil {
			h.client.Unsubscribe(h.events)
		}
	})
}

func (h *HyprlandEventHandler) forward() {
	for {
		select {
		case ev, ok := <-h.events:
			if !ok {
				return
			}
			if !workspaceEvents[ev.Type] {
				continue
			}
			select {
			case h.wake <- struct{}{}:
			default:
			}
		case <-h.stop:
			return
		}
	}
}
