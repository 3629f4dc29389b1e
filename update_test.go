package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"pkt.systems/pslog"
)

func testContext(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := pslog.NewWithOptions(&buf, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.InfoLevel,
	})
	return pslog.ContextWithLogger(context.Background(), logger), &buf
}

func textWidget(name, text string) Widget {
	return funcWidget{name: name, render: func(s *Sink) error {
		s.Text(text)
		return nil
	}}
}

func brokenWidget(name string) Widget {
	return funcWidget{name: name, render: func(s *Sink) error {
		s.Text("garbage")
		return ErrParse
	}}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestCycleRendersInOrder(t *testing.T) {
	ctx, logs := testContext(t)
	cfg := testConfig(t)
	var out bytes.Buffer
	sink := NewSink(cfg, &out, nil)
	widgets := []Widget{textWidget("a", "A"), brokenWidget("b"), textWidget("c", "C")}

	var m tea.Model = initialModel(ctx, cfg, sink, widgets, modelOptions{})
	m, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("expected the next tick to be scheduled")
	}
	m, _ = m.Update(tickMsg(time.Now()))

	if got, want := out.String(), "AC\nAC\n"; got != want {
		t.Errorf("renderer got %q, want %q", got, want)
	}
	mm := m.(model)
	if mm.err != nil {
		t.Errorf("unexpected error: %v", mm.err)
	}
	if mm.cycles != 2 {
		t.Errorf("cycles = %d, want 2", mm.cycles)
	}
	if !strings.Contains(logs.String(), "widget skipped") {
		t.Errorf("failure not logged: %s", logs.String())
	}
}

func TestCycleStrictModeStops(t *testing.T) {
	ctx, _ := testContext(t)
	cfg := testConfig(t)
	cfg.Strict = true
	var out bytes.Buffer
	sink := NewSink(cfg, &out, nil)
	widgets := []Widget{textWidget("a", "A"), brokenWidget("b")}

	m, cmd := initialModel(ctx, cfg, sink, widgets, modelOptions{}).Update(tickMsg(time.Now()))
	if !isQuit(cmd) {
		t.Error("strict failure should quit")
	}
	var werr WidgetError
	if err := m.(model).err; !errors.As(err, &werr) || werr.Widget != "b" {
		t.Errorf("err = %v, want widget b failure", err)
	}
	if out.Len() != 0 {
		t.Errorf("strict failure still sent %q", out.String())
	}
}

func TestCycleSinkFailureIsFatal(t *testing.T) {
	ctx, _ := testContext(t)
	cfg := testConfig(t)
	sink := NewSink(cfg, failingWriter{}, nil)

	m, cmd := initialModel(ctx, cfg, sink, []Widget{textWidget("a", "A")}, modelOptions{}).Update(tickMsg(time.Now()))
	if !isQuit(cmd) {
		t.Error("sink failure should quit")
	}
	if err := m.(model).err; !errors.Is(err, ErrSinkUnavailable) {
		t.Errorf("err = %v, want ErrSinkUnavailable", err)
	}
}

func TestOnceQuitsAfterFirstFrame(t *testing.T) {
	ctx, _ := testContext(t)
	cfg := testConfig(t)
	var out bytes.Buffer
	sink := NewSink(cfg, &out, nil)

	_, cmd := initialModel(ctx, cfg, sink, []Widget{textWidget("a", "A")}, modelOptions{once: true}).Update(tickMsg(time.Now()))
	if !isQuit(cmd) {
		t.Error("once mode should quit after a frame")
	}
	if out.String() != "A\n" {
		t.Errorf("renderer got %q", out.String())
	}
}

func TestWakeRendersImmediately(t *testing.T) {
	ctx, _ := testContext(t)
	cfg := testConfig(t)
	var out bytes.Buffer
	sink := NewSink(cfg, &out, nil)
	wake := make(chan struct{}, 1)

	m := initialModel(ctx, cfg, sink, []Widget{textWidget("a", "A")}, modelOptions{wake: wake})
	if m.Init() == nil {
		t.Fatal("Init returned no command")
	}

	_, cmd := m.Update(wakeMsg{})
	if out.String() != "A\n" {
		t.Errorf("renderer got %q", out.String())
	}
	wake <- struct{}{}
	if msg := cmd(); msg != (wakeMsg{}) {
		t.Errorf("wait command returned %#v, want wakeMsg", msg)
	}
}

func TestInitStartsWithAFrame(t *testing.T) {
	ctx, _ := testContext(t)
	cfg := testConfig(t)
	m := initialModel(ctx, cfg, NewSink(cfg, nil, nil), nil, modelOptions{})
	if _, ok := m.Init()().(tickMsg); !ok {
		t.Error("Init should emit an immediate tick")
	}
}

func TestQuitKey(t *testing.T) {
	ctx, _ := testContext(t)
	cfg := testConfig(t)
	m := initialModel(ctx, cfg, NewSink(cfg, nil, nil), nil, modelOptions{preview: true})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !isQuit(cmd) {
		t.Error("q should quit")
	}
}
