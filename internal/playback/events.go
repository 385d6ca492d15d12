package playback

import (
	"fmt"
	"log"
)

// EventKind distinguishes session notifications
type EventKind int

const (
	// EventProgress is sent after every tick and seek.
	EventProgress EventKind = iota
	// EventEnded is sent once when the clock runs past the last scene.
	EventEnded
	// EventState is sent on play, pause, stop and scene or style changes.
	EventState
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventEnded:
		return "ended"
	case EventState:
		return "state"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is a notification from the session. Time, Scene, Percent and State
// describe the session right after the change.
type Event struct {
	Kind    EventKind `json:"kind"`
	Time    float64   `json:"time"`
	Scene   int       `json:"scene"`
	Caption string    `json:"caption,omitempty"`
	Percent float64   `json:"percent"`
	State   State     `json:"state"`
}

// Subscribe registers a new listener. Events arrive in the order the
// session produced them. The returned function unsubscribes and closes
// the channel.
func (s *Session) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, eventBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// emitLocked stamps ev with the current state and hands it to every
// subscriber without blocking.
func (s *Session) emitLocked(ev Event) {
	st := s.stateLocked()
	ev.Time = st.CurrentTime
	ev.Scene = st.ActiveScene
	ev.Percent = st.Percent
	ev.State = st

	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			log.Printf("[!] subscriber %d is full, dropping %s event", id, ev.Kind)
		}
	}
}
