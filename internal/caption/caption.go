package caption

import (
	"math"
	"strings"

	"github.com/ivlev/captionsync/internal/scene"
	"github.com/ivlev/captionsync/internal/style"
	"github.com/ivlev/captionsync/internal/timeline"
)

// Words splits scene text on whitespace. Runs of spaces never produce
// empty words.
func Words(text string) []string {
	return strings.Fields(text)
}

// WordIndex is the word active at progress p in a scene of n words:
// floor(p*n), clamped to [0, n-1].
func WordIndex(p float64, n int) int {
	if n <= 0 || p <= 0 || math.IsNaN(p) {
		return 0
	}
	idx := int(math.Floor(p * float64(n)))
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// Window returns the caption shown at progress p inside a scene.
//
// Only the word window animation slices the text: it shows up to
// wordsPerCaption words starting at the active word, truncated at the end
// of the scene. Every other animation shows the full text.
func Window(text string, p float64, wordsPerCaption int, anim style.Animation) string {
	if anim != style.WordWindow {
		return text
	}
	words := Words(text)
	if len(words) == 0 {
		return ""
	}
	if wordsPerCaption < 1 {
		wordsPerCaption = 1
	}

	start := WordIndex(p, len(words))
	end := start + wordsPerCaption
	if end > len(words) {
		end = len(words)
	}
	return strings.Join(words[start:end], " ")
}

// At is Window for clock time t over a scene list.
func At(scenes []scene.Scene, t float64, cfg style.Config) (string, timeline.Position, error) {
	pos, err := timeline.Locate(scenes, t)
	if err != nil {
		return "", pos, err
	}
	cfg = cfg.Clamped()
	text := Window(scenes[pos.Index].Text, pos.Progress, cfg.WordsPerCaption, cfg.Animation)
	return text, pos, nil
}
