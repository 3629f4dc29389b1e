package main

import (
	"context"
	"time"
)

type model struct {
	ctx      context.Context
	sink     *Sink
	widgets  []Widget
	interval time.Duration
	strict   bool
	once     bool
	preview  bool
	wake     <-chan struct{}
	styles   previewStyles

	frame  []Token
	cycles int
	err    error

	width  int
	height int
}

type modelOptions struct {
	once    bool
	preview bool
	wake    <-chan struct{}
}

func initialModel(ctx context.Context, cfg *Config, sink *Sink, widgets []Widget, opts modelOptions) model {
	return model{
		ctx:      ctx,
		sink:     sink,
		widgets:  widgets,
		interval: cfg.RefreshInterval,
		strict:   cfg.Strict,
		once:     opts.once,
		preview:  opts.preview,
		wake:     opts.wake,
		styles:   newPreviewStyles(cfg.Colors),
	}
}
