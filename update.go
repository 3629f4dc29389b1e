package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"pkt.systems/pslog"
)

type tickMsg time.Time
type wakeMsg struct{}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForWake(wake <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-wake; !ok {
			return nil
		}
		return wakeMsg{}
	}
}

func (m model) Init() tea.Cmd {
	first := func() tea.Msg { return tickMsg(time.Now()) }
	if m.wake == nil {
		return first
	}
	return tea.Batch(first, waitForWake(m.wake))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m = m.cycle()
		if m.err != nil || m.once {
			return m, tea.Quit
		}
		return m, tickCmd(m.interval)

	case wakeMsg:
		m = m.cycle()
		if m.err != nil {
			return m, tea.Quit
		}
		return m, waitForWake(m.wake)
	}
	return m, nil
}

// cycle renders every widget in order and flushes the line. Widget failures
// drop that widget's segment; in strict mode they abort the cycle instead.
func (m model) cycle() model {
	log := pslog.Ctx(m.ctx)

	m.sink.Clear()
	for _, w := range m.widgets {
		m.sink.SetWidget(m.ctx, w)
	}
	for _, f := range m.sink.Failures() {
		if m.strict {
			m.err = f
			return m
		}
		log.Warn("widget skipped", "widget", f.Widget, "err", f.Err)
	}

	if err := m.sink.Send(); err != nil {
		m.err = err
		return m
	}
	m.frame = append(m.frame[:0], m.sink.Tokens()...)
	m.cycles++
	log.Debug("cycle sent", "cycle", m.cycles, "tokens", len(m.frame))
	return m
}
