package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func TestRendererArgs(t *testing.T) {
	cfg := defaultConfig()
	got := rendererArgs(cfg)
	want := []string{
		"-p", "-h", "20", "-ta", "r",
		"-fg", "#D8043F", "-bg", "#191F27",
		"-fn", cfg.Font, "-dock",
	}
	if len(got) != len(want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStartRendererMissingBinary(t *testing.T) {
	cfg := defaultConfig()
	cfg.Renderer = "futuredash-no-such-renderer"
	if _, err := StartRenderer(cfg); !errors.Is(err, ErrSinkUnavailable) {
		t.Errorf("err = %v, want ErrSinkUnavailable", err)
	}
}

func TestRendererExitSurfacesOnSend(t *testing.T) {
	truePath, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not available")
	}
	cfg := testConfig(t)
	cfg.Renderer = truePath

	r, err := StartRenderer(cfg)
	if err != nil {
		t.Fatalf("StartRenderer: %v", err)
	}
	defer r.Close()

	sink := NewSink(cfg, r, nil)
	sink.Text("x")
	deadline := time.Now().Add(5 * time.Second)
	for {
		err = sink.Send()
		if err != nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !errors.Is(err, ErrSinkUnavailable) {
		t.Errorf("err = %v, want ErrSinkUnavailable", err)
	}
}

// scriptRenderer writes a shell renderer that copies its input to a file,
// runs tail afterwards, and returns the script and the output paths.
func scriptRenderer(t *testing.T, tail string) (string, string) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	script := filepath.Join(dir, "renderer.sh")
	body := "#!/bin/sh\ncat > '" + out + "'\n" + tail + "\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	return script, out
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read renderer output: %v", err)
	}
	return string(data)
}

func TestRendererCloseDeliversLastLine(t *testing.T) {
	script, out := scriptRenderer(t, "exit 0")
	cfg := testConfig(t)
	cfg.Renderer = script

	r, err := StartRenderer(cfg)
	if err != nil {
		t.Fatalf("StartRenderer: %v", err)
	}
	sink := NewSink(cfg, r, nil)
	sink.Text("last")
	if err := sink.Send(); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := readOutput(t, out); got != "last\n" {
		t.Errorf("renderer got %q, want %q", got, "last\n")
	}
}

func TestRendererPersistLeavesProcessRunning(t *testing.T) {
	script, out := scriptRenderer(t, "exec sleep 10")
	cfg := testConfig(t)
	cfg.Renderer = script

	r, err := StartRenderer(cfg)
	if err != nil {
		t.Fatalf("StartRenderer: %v", err)
	}
	t.Cleanup(func() {
		_ = r.cmd.Process.Kill()
		<-r.done
	})
	r.Persist()

	if _, err := r.Write([]byte("frame\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := readOutput(t, out); got != "frame\n" {
		t.Errorf("renderer got %q, want %q", got, "frame\n")
	}
	select {
	case err := <-r.done:
		r.done <- err
		t.Errorf("renderer exited after Close: %v", err)
	default:
	}
}
