package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/ivlev/captionsync/internal/caption"
)

// WriteSRT writes cues as numbered SRT blocks.
func WriteSRT(w io.Writer, cues []caption.Cue) error {
	bw := bufio.NewWriter(w)
	for i, cue := range cues {
		fmt.Fprintf(bw, "%d\n", i+1)
		fmt.Fprintf(bw, "%s --> %s\n", srtTimestamp(cue.Start), srtTimestamp(cue.End))
		fmt.Fprintf(bw, "%s\n\n", cue.Text)
	}
	return bw.Flush()
}

// WriteSRTFile writes cues to path, creating its directory.
func WriteSRTFile(cues []caption.Cue, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteSRT(w, cues) })
}

// srtTimestamp formats seconds as HH:MM:SS,mmm
func srtTimestamp(seconds float64) string {
	ms := toMillis(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}

func toMillis(seconds float64) int64 {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return int64(math.Round(seconds * 1000))
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
