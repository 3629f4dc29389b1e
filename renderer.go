package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

const (
	rendererDrainTimeout = 500 * time.Millisecond
	rendererStopTimeout  = 2 * time.Second
)

// Renderer is the long-lived bar process reading markup lines on stdin.
type Renderer struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	done    chan error
	persist bool
}

func rendererArgs(cfg *Config) []string {
	return []string{
		"-p",
		"-h", fmt.Sprintf("%d", cfg.Height),
		"-ta", cfg.Alignment,
		"-fg", cfg.Colors.Foreground,
		"-bg", cfg.Colors.Background,
		"-fn", cfg.Font,
		"-dock",
	}
}

// StartRenderer spawns the configured renderer. Failure here is fatal to the caller.
func StartRenderer(cfg *Config) (*Renderer, error) {
	cmd := exec.Command(cfg.Renderer, rendererArgs(cfg)...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start %s: %w", ErrSinkUnavailable, cfg.Renderer, err)
	}

	r := &Renderer{cmd: cmd, stdin: stdin, done: make(chan error, 1)}
	go func() {
		r.done <- cmd.Wait()
	}()
	return r, nil
}

func (r *Renderer) Write(p []byte) (int, error) {
	select {
	case err := <-r.done:
		r.done <- err
		return 0, fmt.Errorf("renderer exited: %v", err)
	default:
	}
	return r.stdin.Write(p)
}

// Persist makes Close leave the renderer running once it has drained its
// input, so the last line stays on screen after we exit.
func (r *Renderer) Persist() {
	r.persist = true
}

// Close closes the pipe and gives the renderer time to draw what it already
// has. dzen2 runs with -p and survives EOF, so unless Persist was called it
// is then terminated explicitly.
func (r *Renderer) Close() error {
	closeErr := r.stdin.Close()
	if closeErr != nil && errors.Is(closeErr, os.ErrClosed) {
		closeErr = nil
	}

	select {
	case <-r.done:
		return closeErr
	case <-time.After(rendererDrainTimeout):
	}
	if r.persist {
		return closeErr
	}

	_ = r.cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-r.done:
	case <-time.After(rendererStopTimeout):
		_ = r.cmd.Process.Kill()
		<-r.done
	}
	return closeErr
}
