package playback

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ivlev/captionsync/internal/caption"
	"github.com/ivlev/captionsync/internal/scene"
	"github.com/ivlev/captionsync/internal/style"
	"github.com/ivlev/captionsync/internal/timeline"
)

// TickAdvance is how far the clock moves per tick at speed 1.0, in seconds.
const TickAdvance = 0.1

// DefaultInterval is the wall-clock time between ticks.
const DefaultInterval = 100 * time.Millisecond

// Subscriber channel capacity. A subscriber that falls further behind loses events.
const eventBuffer = 64

var (
	ErrClosed     = errors.New("playback session is closed")
	ErrSceneIndex = errors.New("scene index out of range")
)

// Mode is the controller's play state
type Mode int

const (
	Stopped Mode = iota
	Paused
	Playing
)

func (m Mode) String() string {
	switch m {
	case Stopped:
		return "stopped"
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// State is a snapshot of the session.
type State struct {
	CurrentTime   float64 `json:"current_time"`
	TotalDuration float64 `json:"total_duration"`
	Playing       bool    `json:"playing"`
	ActiveScene   int     `json:"active_scene"`
	Mode          Mode    `json:"mode"`
	Percent       float64 `json:"percent"`
}

// Ticker is the clock source driving playback.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type wallTicker struct {
	t *time.Ticker
}

func (w wallTicker) C() <-chan time.Time { return w.t.C }
func (w wallTicker) Stop()               { w.t.Stop() }

func newWallTicker(d time.Duration) Ticker {
	return wallTicker{t: time.NewTicker(d)}
}

// Option configures a Session.
type Option func(*Session)

// WithInterval sets the wall-clock tick interval.
func WithInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithTicker replaces the clock source.
func WithTicker(newTicker func(time.Duration) Ticker) Option {
	return func(s *Session) {
		if newTicker != nil {
			s.newTicker = newTicker
		}
	}
}

// Session owns the scene list, the style and the playback clock. All methods
// are safe for concurrent use. At most one ticking goroutine is live at a
// time; ticks from a superseded goroutine are discarded by generation.
type Session struct {
	mu sync.Mutex

	scenes  []scene.Scene
	style   style.Config
	current float64
	active  int
	mode    Mode

	gen  uint64
	halt chan struct{}

	subs    map[int]chan Event
	nextSub int
	closed  bool

	interval  time.Duration
	newTicker func(time.Duration) Ticker
}

// NewSession creates a stopped session over a copy of scenes.
func NewSession(scenes []scene.Scene, cfg style.Config, opts ...Option) *Session {
	s := &Session{
		scenes:    scene.Clone(scenes),
		style:     cfg.Clamped(),
		subs:      make(map[int]chan Event),
		interval:  DefaultInterval,
		newTicker: newWallTicker,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Play starts the clock from the current time. Playing an already playing
// session does nothing.
func (s *Session) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if len(s.scenes) == 0 {
		return timeline.ErrEmptyTimeline
	}
	if s.mode == Playing {
		return nil
	}

	s.mode = Playing
	s.gen++
	s.halt = make(chan struct{})
	go s.run(s.gen, s.halt)

	s.emitLocked(Event{Kind: EventState})
	return nil
}

// Pause freezes the clock at the current time.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != Playing {
		return
	}
	s.haltLocked()
	s.mode = Paused
	s.emitLocked(Event{Kind: EventState})
}

// Stop halts playback and rewinds to the first scene.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.haltLocked()
	s.current = 0
	s.active = 0
	s.mode = Stopped
	s.emitLocked(Event{Kind: EventState})
}

// Seek moves the clock to t, clamped to [0, total]. The play mode is kept.
func (s *Session) Seek(t float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.scenes) == 0 {
		return timeline.ErrEmptyTimeline
	}

	total := timeline.TotalDuration(s.scenes)
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > total {
		t = total
	}
	s.current = t

	pos, err := timeline.Locate(s.scenes, t)
	if err != nil {
		return err
	}
	s.active = pos.Index
	s.emitLocked(s.progressLocked(pos))
	return nil
}

// SetScenes replaces the scene list and resets to Stopped at 0.
func (s *Session) SetScenes(scenes []scene.Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.haltLocked()
	s.scenes = scene.Clone(scenes)
	s.current = 0
	s.active = 0
	s.mode = Stopped
	s.emitLocked(Event{Kind: EventState})
}

// SetStyle replaces the style. A running clock picks up the new speed on
// its next tick.
func (s *Session) SetStyle(cfg style.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.style = cfg.Clamped()
	s.emitLocked(Event{Kind: EventState})
}

// UpdateScene replaces scene i in place. Playback continues; the current
// time is clamped to the new total.
func (s *Session) UpdateScene(i int, sc scene.Scene) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.scenes) {
		return fmt.Errorf("update scene %d of %d: %w", i, len(s.scenes), ErrSceneIndex)
	}
	s.scenes[i] = sc
	s.rederiveLocked()
	s.emitLocked(Event{Kind: EventState})
	return nil
}

// RemoveScene deletes scene i. Removing the last remaining scene stops playback.
func (s *Session) RemoveScene(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.scenes) {
		return fmt.Errorf("remove scene %d of %d: %w", i, len(s.scenes), ErrSceneIndex)
	}
	s.scenes = append(s.scenes[:i:i], s.scenes[i+1:]...)

	if len(s.scenes) == 0 {
		s.haltLocked()
		s.current = 0
		s.active = 0
		s.mode = Stopped
	} else {
		s.rederiveLocked()
	}
	s.emitLocked(Event{Kind: EventState})
	return nil
}

// State returns a snapshot of the clock.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Caption returns the text shown at the current time.
func (s *Session) Caption() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, _, err := caption.At(s.scenes, s.current, s.style)
	return text, err
}

// Paint resolves the current style.
func (s *Session) Paint() (style.PaintParams, error) {
	s.mu.Lock()
	cfg := s.style
	s.mu.Unlock()
	return style.Resolve(cfg)
}

// Scenes returns a copy of the scene list.
func (s *Session) Scenes() []scene.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scene.Clone(s.scenes)
}

// Style returns the current, clamped, style config.
func (s *Session) Style() style.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.style
}

// Close stops the clock and closes every subscriber channel.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.haltLocked()
	if s.mode == Playing {
		s.mode = Paused
	}
	s.closed = true
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}

func (s *Session) run(gen uint64, halt <-chan struct{}) {
	t := s.newTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-halt:
			return
		case <-t.C():
			if !s.tick(gen) {
				return
			}
		}
	}
}

// tick advances the clock once. It reports false when the goroutine that
// owns gen should exit.
func (s *Session) tick(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.mode != Playing {
		return false
	}

	s.current += TickAdvance * s.style.Speed
	if s.current >= timeline.TotalDuration(s.scenes) {
		s.haltLocked()
		s.current = 0
		s.active = 0
		s.mode = Stopped
		s.emitLocked(Event{Kind: EventEnded})
		return false
	}

	pos, err := timeline.Locate(s.scenes, s.current)
	if err != nil {
		log.Printf("[!] tick at %.2fs: %v", s.current, err)
		return true
	}
	s.active = pos.Index
	s.emitLocked(s.progressLocked(pos))
	return true
}

func (s *Session) haltLocked() {
	s.gen++
	if s.halt != nil {
		close(s.halt)
		s.halt = nil
	}
}

// rederiveLocked clamps the clock after an edit and recomputes the active scene.
func (s *Session) rederiveLocked() {
	total := timeline.TotalDuration(s.scenes)
	if s.current > total {
		s.current = total
	}
	if pos, err := timeline.Locate(s.scenes, s.current); err == nil {
		s.active = pos.Index
	}
}

func (s *Session) stateLocked() State {
	total := timeline.TotalDuration(s.scenes)
	st := State{
		CurrentTime:   s.current,
		TotalDuration: total,
		Playing:       s.mode == Playing,
		ActiveScene:   s.active,
		Mode:          s.mode,
	}
	if total > 0 {
		st.Percent = s.current / total * 100
	}
	return st
}

func (s *Session) progressLocked(pos timeline.Position) Event {
	text := caption.Window(s.scenes[pos.Index].Text, pos.Progress, s.style.WordsPerCaption, s.style.Animation)
	return Event{
		Kind:    EventProgress,
		Caption: text,
	}
}
