package main

import "errors"

var (
	// ErrSourceUnavailable means an external query could not run or produced no output.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrParse means a source answered but the expected pattern was missing.
	ErrParse = errors.New("parse error")
	// ErrSinkUnavailable means the renderer pipe is gone. Fatal.
	ErrSinkUnavailable = errors.New("sink unavailable")
	// ErrConfigInvalid is returned for bad configuration at startup. Fatal.
	ErrConfigInvalid = errors.New("invalid config")
)
