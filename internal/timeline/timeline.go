package timeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/ivlev/captionsync/internal/scene"
)

// ErrEmptyTimeline is returned when there are no scenes to locate or play.
var ErrEmptyTimeline = errors.New("timeline has no scenes")

// MaxProgress is the largest progress value Locate reports. Keeping it
// below 1 means floor(progress*n) never selects word n.
var MaxProgress = math.Nextafter(1, 0)

// Position is the result of mapping a clock time onto the scene list
type Position struct {
	Index    int     // Active scene
	Start    float64 // Scene start time in seconds
	Duration float64 // Effective scene duration in seconds
	Progress float64 // Progress inside the scene, [0, MaxProgress]
	Ended    bool    // t reached or passed the end of the timeline
}

// Span is the [Start, End) interval a scene occupies on the timeline
type Span struct {
	Index int
	Start float64
	End   float64
}

// Locate maps clock time t to the active scene.
//
// The active scene is the first one whose cumulative end time is >= t, so
// the exact boundary instant belongs to the scene that is ending. When t is
// at or past the total duration the last scene is returned with Ended set.
// Nothing is cached: the cumulative sums are rebuilt from scenes on every call.
func Locate(scenes []scene.Scene, t float64) (Position, error) {
	if len(scenes) == 0 {
		return Position{}, ErrEmptyTimeline
	}
	if t < 0 || math.IsNaN(t) {
		t = 0
	}

	if t >= TotalDuration(scenes) {
		last := len(scenes) - 1
		return Position{
			Index:    last,
			Start:    SceneStart(scenes, last),
			Duration: scenes[last].EffectiveDuration(),
			Progress: MaxProgress,
			Ended:    true,
		}, nil
	}

	start := 0.0
	for i, sc := range scenes {
		d := sc.EffectiveDuration()
		end := start + d
		if t <= end {
			return Position{
				Index:    i,
				Start:    start,
				Duration: d,
				Progress: clampProgress((t - start) / d),
			}, nil
		}
		start = end
	}

	// Unreachable: t < total implies some cumulative end is >= t.
	return Position{}, fmt.Errorf("locate %.3fs: cumulative sum did not cover total", t)
}

// TotalDuration sums the effective durations of all scenes.
func TotalDuration(scenes []scene.Scene) float64 {
	total := 0.0
	for _, sc := range scenes {
		total += sc.EffectiveDuration()
	}
	return total
}

// SceneStart returns the cumulative start time of scene i. Out of range
// indexes are clamped to the list.
func SceneStart(scenes []scene.Scene, i int) float64 {
	if i > len(scenes) {
		i = len(scenes)
	}
	start := 0.0
	for j := 0; j < i; j++ {
		start += scenes[j].EffectiveDuration()
	}
	return start
}

// Spans lists every scene's interval on the timeline.
func Spans(scenes []scene.Scene) []Span {
	spans := make([]Span, 0, len(scenes))
	start := 0.0
	for i, sc := range scenes {
		end := start + sc.EffectiveDuration()
		spans = append(spans, Span{Index: i, Start: start, End: end})
		start = end
	}
	return spans
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	mins := int(math.Floor(seconds / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%d:%02d", mins, secs)
}

func clampProgress(p float64) float64 {
	if p < 0 || math.IsNaN(p) {
		return 0
	}
	if p > MaxProgress {
		return MaxProgress
	}
	return p
}
