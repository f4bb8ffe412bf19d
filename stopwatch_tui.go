package deskkit

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/stopwatch"
	tea "github.com/charmbracelet/bubbletea"
)

type stopwatchKeys struct {
	stop key.Binding
	quit key.Binding
}

func (k stopwatchKeys) ShortHelp() []key.Binding  { return []key.Binding{k.stop, k.quit} }
func (k stopwatchKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// StopwatchModel shows a live timer until the user stops it.
type StopwatchModel struct {
	timer   *Stopwatch
	view    stopwatch.Model
	keys    stopwatchKeys
	help    help.Model
	stopped bool
	aborted bool
	elapsed time.Duration
}

func NewStopwatchModel(timer *Stopwatch) StopwatchModel {
	return StopwatchModel{
		timer: timer,
		view:  stopwatch.NewWithInterval(10 * time.Millisecond),
		keys: stopwatchKeys{
			stop: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "stop timer")),
			quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		},
		help: help.New(),
	}
}

func (m StopwatchModel) Init() tea.Cmd {
	m.timer.Start()
	return m.view.Init()
}

func (m StopwatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.stop):
			m.elapsed, _ = m.timer.Stop()
			m.stopped = true
			return m, tea.Sequence(m.view.Stop(), tea.Quit)
		case key.Matches(msg, m.keys.quit):
			m.timer.Reset()
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m StopwatchModel) View() string {
	if m.stopped {
		return headerStyle.Render("Timer stopped.") + "\n"
	}
	if m.aborted {
		return ""
	}
	return fmt.Sprintf("%s %s\n\n%s\n",
		headerStyle.Render("Elapsed:"), m.view.View(), m.help.View(m.keys))
}

// Elapsed is the measured time once the user stopped the timer.
func (m StopwatchModel) Elapsed() (time.Duration, bool) {
	return m.elapsed, m.stopped
}
