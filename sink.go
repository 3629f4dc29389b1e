package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

type TokenKind int

const (
	TokenText TokenKind = iota
	TokenIcon
	TokenFg
	TokenBg
	TokenPosition
	TokenClickStart
	TokenClickEnd
)

// Token is one markup element. An empty Value on TokenFg/TokenBg resets the color.
type Token struct {
	Kind   TokenKind
	Value  string
	Button int
}

// Markup returns the dzen2 wire form of the token.
func (t Token) Markup() string {
	switch t.Kind {
	case TokenText:
		return t.Value
	case TokenIcon:
		return "^i(" + t.Value + ")"
	case TokenFg:
		return "^fg(" + t.Value + ")"
	case TokenBg:
		return "^bg(" + t.Value + ")"
	case TokenPosition:
		return "^p(" + t.Value + ")"
	case TokenClickStart:
		return "^ca(" + strconv.Itoa(t.Button) + ", " + t.Value + ")"
	case TokenClickEnd:
		return "^ca()"
	}
	return ""
}

type Theme string

const (
	ThemeAccent Theme = "accent"
	ThemePlain  Theme = "plain"
)

// WidgetError records a widget whose output was dropped from the current cycle.
type WidgetError struct {
	Widget string
	Err    error
}

func (e WidgetError) Error() string {
	return fmt.Sprintf("widget %s: %v", e.Widget, e.Err)
}

func (e WidgetError) Unwrap() error { return e.Err }

// Sink accumulates one status line and ships it to the renderer.
type Sink struct {
	tokens    []Token
	failures  []WidgetError
	iconDir   string
	iconColor string
	theme     Theme

	out    io.Writer
	mirror io.Writer
	closer io.Closer
}

// NewSink writes lines to out and mirrors them to mirror when it is non-nil.
// If out is also an io.Closer it is closed by Close.
func NewSink(cfg *Config, out, mirror io.Writer) *Sink {
	s := &Sink{
		iconDir:   cfg.IconDir,
		iconColor: cfg.Colors.Icon,
		theme:     cfg.Theme,
		out:       out,
		mirror:    mirror,
	}
	if c, ok := out.(io.Closer); ok {
		s.closer = c
	}
	return s
}

func (s *Sink) Clear() *Sink {
	s.tokens = s.tokens[:0]
	s.failures = s.failures[:0]
	return s
}

func (s *Sink) append(t Token) *Sink {
	s.tokens = append(s.tokens, t)
	return s
}

// Icon appends a themed icon. The accent theme paints it in the icon color.
func (s *Sink) Icon(path string) *Sink {
	if s.theme == ThemePlain || s.iconColor == "" {
		return s.append(Token{Kind: TokenIcon, Value: path})
	}
	s.append(Token{Kind: TokenFg, Value: s.iconColor})
	s.append(Token{Kind: TokenIcon, Value: path})
	return s.append(Token{Kind: TokenFg})
}

// RawIcon appends an icon without any color directives.
func (s *Sink) RawIcon(path string) *Sink {
	return s.append(Token{Kind: TokenIcon, Value: path})
}

// Text appends s verbatim. Callers must not embed control sequences.
func (s *Sink) Text(text string) *Sink {
	return s.append(Token{Kind: TokenText, Value: text})
}

func (s *Sink) FgColor(color string) *Sink {
	return s.append(Token{Kind: TokenFg, Value: color})
}

func (s *Sink) BgColor(color string) *Sink {
	return s.append(Token{Kind: TokenBg, Value: color})
}

func (s *Sink) Position(pos string) *Sink {
	return s.append(Token{Kind: TokenPosition, Value: pos})
}

// PositionRight jumps to the right edge and steps back offset pixels.
func (s *Sink) PositionRight(offset int) *Sink {
	s.append(Token{Kind: TokenPosition, Value: "_RIGHT"})
	return s.append(Token{Kind: TokenPosition, Value: "-" + strconv.Itoa(offset)})
}

// Click opens a clickable region that runs action on the given mouse button.
func (s *Sink) Click(button int, action string) *Sink {
	return s.append(Token{Kind: TokenClickStart, Value: action, Button: button})
}

func (s *Sink) ClickEnd() *Sink {
	return s.append(Token{Kind: TokenClickEnd})
}

// Bar appends the separator bitmap padded by one space on each side.
func (s *Sink) Bar() *Sink {
	s.Text(" ")
	s.RawIcon(filepath.Join(s.iconDir, "bar.xbm"))
	return s.Text(" ")
}

// SetWidget renders w into the sink. A failing widget leaves no tokens behind;
// the failure is kept until the next Clear.
func (s *Sink) SetWidget(ctx context.Context, w Widget) *Sink {
	mark := len(s.tokens)
	if err := w.Render(ctx, s); err != nil {
		s.Truncate(mark)
		s.failures = append(s.failures, WidgetError{Widget: w.Name(), Err: err})
	}
	return s
}

func (s *Sink) Failures() []WidgetError {
	return s.failures
}

func (s *Sink) Tokens() []Token {
	return s.tokens
}

func (s *Sink) Len() int {
	return len(s.tokens)
}

func (s *Sink) Truncate(n int) {
	if n >= 0 && n < len(s.tokens) {
		s.tokens = s.tokens[:n]
	}
}

// String serializes the buffer to a single dzen2 line without the newline.
func (s *Sink) String() string {
	var b strings.Builder
	for _, t := range s.tokens {
		b.WriteString(t.Markup())
	}
	return b.String()
}

// Send writes the buffered line to the renderer.
func (s *Sink) Send() error {
	line := s.String()
	if s.mirror != nil {
		fmt.Fprintln(s.mirror, line)
	}
	if s.out == nil {
		return fmt.Errorf("%w: no renderer attached", ErrSinkUnavailable)
	}
	if _, err := io.WriteString(s.out, line+"\n"); err != nil {
		return fmt.Errorf("%w: write to renderer: %w", ErrSinkUnavailable, err)
	}
	return nil
}

func (s *Sink) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}
