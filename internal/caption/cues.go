package caption

import (
	"github.com/ivlev/captionsync/internal/scene"
	"github.com/ivlev/captionsync/internal/style"
	"github.com/ivlev/captionsync/internal/timeline"
)

// Cue is one caption with absolute start and end times in seconds.
type Cue struct {
	Index int // 1-based, in timeline order
	Scene int
	Start float64
	End   float64
	Text  string
}

// Cues lists every distinct caption the timeline will show, in order.
// With the word window animation a scene of n words yields n cues of equal
// length; otherwise each scene yields one cue. Scenes with no words are
// skipped, so they leave a gap.
func Cues(scenes []scene.Scene, cfg style.Config) []Cue {
	cfg = cfg.Clamped()

	var cues []Cue
	for _, span := range timeline.Spans(scenes) {
		text := scenes[span.Index].Text
		words := Words(text)
		if len(words) == 0 {
			continue
		}

		if cfg.Animation != style.WordWindow {
			cues = append(cues, Cue{
				Scene: span.Index,
				Start: span.Start,
				End:   span.End,
				Text:  text,
			})
			continue
		}

		d := span.End - span.Start
		n := float64(len(words))
		for i := range words {
			// Sample the middle of each word slot so float error cannot
			// land on the previous word.
			p := (float64(i) + 0.5) / n
			cues = append(cues, Cue{
				Scene: span.Index,
				Start: span.Start + d*float64(i)/n,
				End:   span.Start + d*float64(i+1)/n,
				Text:  Window(text, p, cfg.WordsPerCaption, cfg.Animation),
			})
		}
	}

	for i := range cues {
		cues[i].Index = i + 1
	}
	return cues
}
