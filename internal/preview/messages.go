package preview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivlev/captionsync/internal/playback"
)

// EventMsg carries one session notification into the update loop
type EventMsg struct {
	Event playback.Event
}

// ClosedMsg is sent when the session closes the event channel
type ClosedMsg struct{}

// waitForEvent blocks on the next session event.
func waitForEvent(events <-chan playback.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return ClosedMsg{}
		}
		return EventMsg{Event: ev}
	}
}
