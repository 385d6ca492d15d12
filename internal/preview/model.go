package preview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivlev/captionsync/internal/playback"
	"github.com/ivlev/captionsync/internal/scene"
	"github.com/ivlev/captionsync/internal/style"
)

// Controller is the part of a playback session the preview drives.
type Controller interface {
	Play() error
	Pause()
	Stop()
	Seek(t float64) error
	SetStyle(cfg style.Config)
	State() playback.State
	Style() style.Config
	Scenes() []scene.Scene
	Caption() (string, error)
	Paint() (style.PaintParams, error)
	Subscribe() (<-chan playback.Event, func())
}

// Model is the terminal preview of a playback session.
type Model struct {
	session Controller
	events  <-chan playback.Event
	cancel  func()

	state   playback.State
	caption string
	scenes  []scene.Scene
	style   style.Config
	paint   style.PaintParams
	err     error
	width   int
}

// NewModel subscribes to session and snapshots its current state.
func NewModel(session Controller) Model {
	events, cancel := session.Subscribe()
	m := Model{
		session: session,
		events:  events,
		cancel:  cancel,
		width:   80,
	}
	m.refresh()
	return m
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// refresh reloads everything that changes on a state event.
func (m *Model) refresh() {
	m.state = m.session.State()
	m.scenes = m.session.Scenes()
	m.style = m.session.Style()

	paint, err := m.session.Paint()
	if err != nil {
		m.err = err
	} else {
		m.paint = paint
		m.err = nil
	}

	if text, err := m.session.Caption(); err == nil {
		m.caption = text
	} else {
		m.caption = ""
	}
}

// Run starts the preview and blocks until the user quits.
func Run(session Controller) error {
	m := NewModel(session)
	defer m.cancel()

	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
