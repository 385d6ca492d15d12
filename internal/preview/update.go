package preview

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivlev/captionsync/internal/playback"
	"github.com/ivlev/captionsync/internal/style"
)

const (
	seekStep  = 1.0
	speedStep = 0.2
	minSpeed  = 0.2
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case EventMsg:
		return m.handleEvent(msg.Event)
	case ClosedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleEvent(ev playback.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case playback.EventProgress:
		m.state = ev.State
		m.caption = ev.Caption
	default:
		m.refresh()
	}
	return m, waitForEvent(m.events)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.session.Pause()
		return m, tea.Quit

	case " ", "space":
		if m.session.State().Playing {
			m.session.Pause()
		} else if err := m.session.Play(); err != nil {
			m.err = err
		}

	case "left":
		m.seekBy(-seekStep)
	case "right":
		m.seekBy(seekStep)
	case "s":
		m.session.Stop()

	case "+", "=":
		m.updateStyle(func(c *style.Config) { c.Speed += speedStep })
	case "-":
		m.updateStyle(func(c *style.Config) { c.Speed = math.Max(minSpeed, c.Speed-speedStep) })
	case "w":
		m.updateStyle(func(c *style.Config) { c.WordsPerCaption++ })
	case "W":
		m.updateStyle(func(c *style.Config) { c.WordsPerCaption-- })
	case "a":
		m.updateStyle(func(c *style.Config) { c.Animation = nextAnimation(c.Animation) })
	}

	// Controls on a stopped or paused session emit no progress, so pull the
	// state directly.
	m.refresh()
	return m, nil
}

func (m *Model) seekBy(delta float64) {
	if err := m.session.Seek(m.session.State().CurrentTime + delta); err != nil {
		m.err = err
	}
}

func (m *Model) updateStyle(change func(*style.Config)) {
	cfg := m.session.Style()
	change(&cfg)
	m.session.SetStyle(cfg)
}

func nextAnimation(a style.Animation) style.Animation {
	switch a {
	case style.Continuous:
		return style.WordWindow
	case style.WordWindow:
		return style.Typewriter
	}
	return style.Continuous
}
