package caption

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ivlev/captionsync/internal/scene"
	"github.com/ivlev/captionsync/internal/style"
	"github.com/ivlev/captionsync/internal/timeline"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		name string
		text string
		p    float64
		wpc  int
		anim style.Animation
		want string
	}{
		{"middle word", "hello world foo", 0.5, 1, style.WordWindow, "world"},
		{"second scene", "bar baz", 0.5, 1, style.WordWindow, "baz"},
		{"first word", "hello world foo", 0, 1, style.WordWindow, "hello"},
		{"two words", "hello world foo", 0, 2, style.WordWindow, "hello world"},
		{"truncated at end", "hello world foo", 0.9, 2, style.WordWindow, "foo"},
		{"progress one", "hello world foo", 1.0, 1, style.WordWindow, "foo"},
		{"zero wpc", "hello world foo", 0.5, 0, style.WordWindow, "world"},
		{"extra spaces", "  a   b  ", 0.6, 1, style.WordWindow, "b"},
		{"empty", "", 0.3, 1, style.WordWindow, ""},
		{"continuous", "hello world foo", 0.5, 1, style.Continuous, "hello world foo"},
		{"typewriter", "hello world", 0.1, 1, style.Typewriter, "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Window(tt.text, tt.p, tt.wpc, tt.anim)
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestWordIndexMonotonic(t *testing.T) {
	const n = 7
	prev := 0
	for step := 0; step <= 1000; step++ {
		p := float64(step) / 1000
		idx := WordIndex(p, n)
		if idx < 0 || idx >= n {
			t.Fatalf("Index %d out of range at p=%f", idx, p)
		}
		if idx < prev {
			t.Fatalf("Index went backwards at p=%f: %d -> %d", p, prev, idx)
		}
		prev = idx
	}
	if prev != n-1 {
		t.Errorf("Expected to reach last word, stopped at %d", prev)
	}

	if got := WordIndex(-0.2, n); got != 0 {
		t.Errorf("Negative progress should map to 0, got %d", got)
	}
	if got := WordIndex(math.NaN(), n); got != 0 {
		t.Errorf("NaN progress should map to 0, got %d", got)
	}
}

func TestAt(t *testing.T) {
	scenes := []scene.Scene{
		{Text: "hello world foo", Duration: 3},
		{Text: "bar baz", Duration: 2},
	}
	cfg := style.DefaultConfig()

	text, pos, err := At(scenes, 1.5, cfg)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if text != "world" || pos.Index != 0 {
		t.Errorf("Expected world in scene 0, got %q in %d", text, pos.Index)
	}

	text, _, _ = At(scenes, 4, cfg)
	if text != "baz" {
		t.Errorf("Expected baz, got %q", text)
	}

	if _, _, err := At(nil, 0, cfg); !errors.Is(err, timeline.ErrEmptyTimeline) {
		t.Errorf("Expected ErrEmptyTimeline, got %v", err)
	}
}

func TestCuesWordWindow(t *testing.T) {
	scenes := []scene.Scene{
		{Text: "hello world foo", Duration: 3},
		{Text: "   "},
		{Text: "bar baz", Duration: 2},
	}

	cues := Cues(scenes, style.DefaultConfig())
	want := []string{"hello", "world", "foo", "bar", "baz"}
	if len(cues) != len(want) {
		t.Fatalf("Expected %d cues, got %d: %+v", len(want), len(cues), cues)
	}

	for i, c := range cues {
		if c.Text != want[i] {
			t.Errorf("Cue %d: expected %q, got %q", i, want[i], c.Text)
		}
		if c.Index != i+1 {
			t.Errorf("Cue %d: expected index %d, got %d", i, i+1, c.Index)
		}
		if c.End <= c.Start {
			t.Errorf("Cue %d has empty interval %f..%f", i, c.Start, c.End)
		}
	}

	// The blank scene occupies 3..8 with no cue.
	if cues[3].Start != 8 || cues[3].Scene != 2 {
		t.Errorf("Expected bar to start at 8 in scene 2, got %+v", cues[3])
	}
	if math.Abs(cues[1].Start-1) > 1e-9 || math.Abs(cues[1].End-2) > 1e-9 {
		t.Errorf("Expected world at 1..2, got %+v", cues[1])
	}
}

func TestCuesAgreeWithWindow(t *testing.T) {
	scenes := []scene.Scene{
		{Text: "one two three four five", Duration: 2.5},
		{Text: "six seven", Duration: 1.1},
	}
	cfg := style.DefaultConfig()
	cfg.WordsPerCaption = 2

	for _, c := range Cues(scenes, cfg) {
		mid := (c.Start + c.End) / 2
		got, _, err := At(scenes, mid, cfg)
		if err != nil {
			t.Fatalf("At failed: %v", err)
		}
		if got != c.Text {
			t.Errorf("At(%f) = %q, cue says %q", mid, got, c.Text)
		}
	}
}

func TestCuesContinuous(t *testing.T) {
	scenes := []scene.Scene{
		{Text: "first scene text", Duration: 2},
		{Text: "second", Duration: 1},
	}
	cfg := style.DefaultConfig()
	cfg.Animation = style.Continuous

	cues := Cues(scenes, cfg)
	if len(cues) != 2 {
		t.Fatalf("Expected one cue per scene, got %d", len(cues))
	}
	if cues[0].Text != "first scene text" || cues[1].Start != 2 || cues[1].End != 3 {
		t.Errorf("Unexpected cues: %+v", cues)
	}
	if strings.ToUpper(cues[0].Text) == cues[0].Text {
		t.Error("Cue text should not be transformed")
	}
}
