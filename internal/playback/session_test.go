package playback

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ivlev/captionsync/internal/scene"
	"github.com/ivlev/captionsync/internal/style"
	"github.com/ivlev/captionsync/internal/timeline"
)

type fakeTicker struct {
	ch      chan time.Time
	stopped chan struct{}
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               { close(f.stopped) }

// fakeClock hands every ticker the session creates to the test.
func fakeClock() (Option, chan *fakeTicker) {
	made := make(chan *fakeTicker, 8)
	opt := WithTicker(func(time.Duration) Ticker {
		ft := &fakeTicker{ch: make(chan time.Time), stopped: make(chan struct{})}
		made <- ft
		return ft
	})
	return opt, made
}

func testScenes() []scene.Scene {
	return []scene.Scene{
		{Text: "hello world foo", Duration: 3},
		{Text: "bar baz", Duration: 2},
	}
}

func testStyle(speed float64) style.Config {
	cfg := style.DefaultConfig()
	cfg.Speed = speed
	return cfg
}

func newTestSession(t *testing.T, speed float64) *Session {
	t.Helper()
	opt, _ := fakeClock()
	s := NewSession(testScenes(), testStyle(speed), opt)
	t.Cleanup(s.Close)
	return s
}

func generation(s *Session) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func TestPlayAdvancesClock(t *testing.T) {
	s := newTestSession(t, 1.0)

	if err := s.Play(); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	gen := generation(s)

	for i := 0; i < 15; i++ {
		if !s.tick(gen) {
			t.Fatalf("tick %d stopped the clock", i)
		}
	}

	st := s.State()
	if math.Abs(st.CurrentTime-1.5) > 1e-9 {
		t.Errorf("Expected time 1.5, got %f", st.CurrentTime)
	}
	if !st.Playing || st.Mode != Playing || st.ActiveScene != 0 {
		t.Errorf("Unexpected state: %+v", st)
	}
	if math.Abs(st.Percent-30) > 1e-6 {
		t.Errorf("Expected 30%%, got %f", st.Percent)
	}

	text, err := s.Caption()
	if err != nil || text != "world" {
		t.Errorf("Expected caption world, got %q (%v)", text, err)
	}

	for i := 0; i < 30; i++ {
		s.tick(gen)
	}
	if st := s.State(); st.ActiveScene != 1 {
		t.Errorf("Expected scene 1 at %fs, got %d", st.CurrentTime, st.ActiveScene)
	}
	if text, _ := s.Caption(); text != "baz" {
		t.Errorf("Expected caption baz, got %q", text)
	}
}

func TestSpeedScalesAdvance(t *testing.T) {
	s := newTestSession(t, 2.5)
	s.Play()
	s.tick(generation(s))

	if got := s.State().CurrentTime; math.Abs(got-0.25) > 1e-9 {
		t.Errorf("Expected 0.25s after one tick at 2.5x, got %f", got)
	}
}

func TestPlaybackEnds(t *testing.T) {
	s := newTestSession(t, 1.0)
	events, cancel := s.Subscribe()
	defer cancel()

	s.Play()
	gen := generation(s)

	ticks := 0
	for s.tick(gen) {
		ticks++
		if ticks > 100 {
			t.Fatal("Clock never reached the end")
		}
	}
	t.Logf("Ended after %d ticks", ticks+1)

	st := s.State()
	if st.CurrentTime != 0 || st.ActiveScene != 0 || st.Mode != Stopped || st.Playing {
		t.Errorf("Expected rewind to stopped at 0, got %+v", st)
	}

	var last Event
	ended := 0
	for len(events) > 0 {
		last = <-events
		if last.Kind == EventEnded {
			ended++
		}
	}
	if ended != 1 || last.Kind != EventEnded {
		t.Errorf("Expected exactly one ended event at the end, got %d (last %s)", ended, last.Kind)
	}
	if s.tick(gen) {
		t.Error("Old generation must not tick after the end")
	}
}

func TestStaleTickIgnored(t *testing.T) {
	s := newTestSession(t, 1.0)

	s.Play()
	first := generation(s)
	s.Pause()

	if s.tick(first) {
		t.Error("Tick after pause should stop the goroutine")
	}
	if got := s.State().CurrentTime; got != 0 {
		t.Errorf("Paused clock moved to %f", got)
	}

	s.Play()
	second := generation(s)
	if s.tick(first) {
		t.Error("Superseded generation should not tick")
	}
	if !s.tick(second) {
		t.Error("Current generation should tick")
	}
	if got := s.State().CurrentTime; math.Abs(got-0.1) > 1e-9 {
		t.Errorf("Expected exactly one advance, got %f", got)
	}
}

func TestPlayTwiceIsNoop(t *testing.T) {
	s := newTestSession(t, 1.0)
	s.Play()
	gen := generation(s)
	if err := s.Play(); err != nil {
		t.Fatalf("Second Play failed: %v", err)
	}
	if generation(s) != gen {
		t.Error("Second Play must not restart the clock")
	}
}

func TestPlayEmpty(t *testing.T) {
	s := NewSession(nil, style.DefaultConfig())
	defer s.Close()

	if err := s.Play(); !errors.Is(err, timeline.ErrEmptyTimeline) {
		t.Errorf("Expected ErrEmptyTimeline, got %v", err)
	}
	if err := s.Seek(1); !errors.Is(err, timeline.ErrEmptyTimeline) {
		t.Errorf("Expected ErrEmptyTimeline from Seek, got %v", err)
	}
	if _, err := s.Caption(); !errors.Is(err, timeline.ErrEmptyTimeline) {
		t.Errorf("Expected ErrEmptyTimeline from Caption, got %v", err)
	}
	if st := s.State(); st.Percent != 0 || st.TotalDuration != 0 {
		t.Errorf("Unexpected empty state: %+v", st)
	}
}

func TestSeek(t *testing.T) {
	s := newTestSession(t, 1.0)
	events, cancel := s.Subscribe()
	defer cancel()

	tests := []struct {
		name        string
		to          float64
		wantTime    float64
		wantScene   int
		wantCaption string
	}{
		{"inside second", 4, 4, 1, "baz"},
		{"past end", 100, 5, 1, "baz"},
		{"negative", -3, 0, 0, "hello"},
		{"boundary", 3, 3, 0, "foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Seek(tt.to); err != nil {
				t.Fatalf("Seek failed: %v", err)
			}
			ev := <-events
			if ev.Kind != EventProgress {
				t.Fatalf("Expected progress event, got %s", ev.Kind)
			}
			if ev.Time != tt.wantTime || ev.Scene != tt.wantScene {
				t.Errorf("Expected %f in scene %d, got %f in scene %d", tt.wantTime, tt.wantScene, ev.Time, ev.Scene)
			}
			if ev.Caption != tt.wantCaption {
				t.Errorf("Expected caption %q, got %q", tt.wantCaption, ev.Caption)
			}
			if s.State().Mode != Stopped {
				t.Error("Seek must not start playback")
			}
		})
	}
}

func TestStopRewinds(t *testing.T) {
	s := newTestSession(t, 1.0)
	s.Play()
	s.Seek(4)
	s.Stop()

	st := s.State()
	if st.CurrentTime != 0 || st.ActiveScene != 0 || st.Mode != Stopped {
		t.Errorf("Expected stopped at 0, got %+v", st)
	}
}

func TestSetScenesResets(t *testing.T) {
	s := newTestSession(t, 1.0)
	s.Play()
	s.Seek(4)

	next := []scene.Scene{{Text: "one", Duration: 1}}
	s.SetScenes(next)
	next[0].Text = "mutated"

	st := s.State()
	if st.Mode != Stopped || st.CurrentTime != 0 || st.TotalDuration != 1 {
		t.Errorf("Expected reset to new list, got %+v", st)
	}
	if got := s.Scenes()[0].Text; got != "one" {
		t.Errorf("Session must copy the scene list, got %q", got)
	}
}

func TestSetStyleTakesEffectNextTick(t *testing.T) {
	s := newTestSession(t, 1.0)
	s.Play()
	gen := generation(s)
	s.tick(gen)

	cfg := testStyle(3)
	cfg.WordsPerCaption = 0
	s.SetStyle(cfg)
	s.tick(gen)

	if got := s.State().CurrentTime; math.Abs(got-0.4) > 1e-9 {
		t.Errorf("Expected 0.1 + 0.3, got %f", got)
	}
	if got := s.Style().WordsPerCaption; got != 1 {
		t.Errorf("Style should be clamped, got %d words", got)
	}
}

func TestUpdateSceneWhilePlaying(t *testing.T) {
	s := newTestSession(t, 1.0)
	s.Play()
	s.Seek(4.5)

	if err := s.UpdateScene(1, scene.Scene{Text: "short", Duration: 0.5}); err != nil {
		t.Fatalf("UpdateScene failed: %v", err)
	}

	st := s.State()
	if st.Mode != Playing {
		t.Errorf("Edit should keep playing, got %s", st.Mode)
	}
	if st.TotalDuration != 3.5 || st.CurrentTime != 3.5 {
		t.Errorf("Expected clock clamped to 3.5, got %+v", st)
	}
	if text, _ := s.Caption(); text != "short" {
		t.Errorf("Expected edited caption, got %q", text)
	}

	if err := s.UpdateScene(5, scene.Scene{}); !errors.Is(err, ErrSceneIndex) {
		t.Errorf("Expected ErrSceneIndex, got %v", err)
	}
}

func TestRemoveScene(t *testing.T) {
	s := newTestSession(t, 1.0)
	s.Play()
	s.Seek(4)

	if err := s.RemoveScene(0); err != nil {
		t.Fatalf("RemoveScene failed: %v", err)
	}
	st := s.State()
	if st.TotalDuration != 2 || st.CurrentTime != 2 || st.ActiveScene != 0 || st.Mode != Playing {
		t.Errorf("Unexpected state after remove: %+v", st)
	}

	if err := s.RemoveScene(0); err != nil {
		t.Fatalf("RemoveScene failed: %v", err)
	}
	st = s.State()
	if st.Mode != Stopped || st.TotalDuration != 0 {
		t.Errorf("Removing the last scene should stop, got %+v", st)
	}
	if err := s.RemoveScene(0); !errors.Is(err, ErrSceneIndex) {
		t.Errorf("Expected ErrSceneIndex, got %v", err)
	}
}

func TestTickerDrivesPlayback(t *testing.T) {
	opt, made := fakeClock()
	s := NewSession(testScenes(), testStyle(1.0), opt, WithInterval(time.Millisecond))
	defer s.Close()

	events, cancel := s.Subscribe()
	defer cancel()

	if err := s.Play(); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if ev := <-events; ev.Kind != EventState || !ev.State.Playing {
		t.Fatalf("Expected playing state event, got %+v", ev)
	}

	ft := <-made
	ft.ch <- time.Now()

	select {
	case ev := <-events:
		if ev.Kind != EventProgress || math.Abs(ev.Time-0.1) > 1e-9 || ev.Caption != "hello" {
			t.Errorf("Unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("No progress event after tick")
	}

	s.Pause()
	select {
	case <-ft.stopped:
	case <-time.After(time.Second):
		t.Fatal("Ticker not stopped after pause")
	}
}

func TestCloseClosesSubscribers(t *testing.T) {
	s := NewSession(testScenes(), style.DefaultConfig())
	events, cancel := s.Subscribe()
	s.Close()

	if _, ok := <-events; ok {
		t.Error("Expected closed channel")
	}
	cancel()

	if err := s.Play(); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

func TestPaint(t *testing.T) {
	s := newTestSession(t, 1.0)
	cfg := style.DefaultConfig()
	cfg.FontColor = "white"
	s.SetStyle(cfg)

	if _, err := s.Paint(); !errors.Is(err, style.ErrInvalidColor) {
		t.Errorf("Expected ErrInvalidColor, got %v", err)
	}
}
