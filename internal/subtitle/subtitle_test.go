package subtitle

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/captionsync/internal/caption"
	"github.com/ivlev/captionsync/internal/scene"
	"github.com/ivlev/captionsync/internal/style"
)

func TestSRTTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{61.0004, "00:01:01,000"},
		{3723.25, "01:02:03,250"},
		{2.9999, "00:00:03,000"},
		{-1, "00:00:00,000"},
	}

	for _, tt := range tests {
		if got := srtTimestamp(tt.seconds); got != tt.want {
			t.Errorf("srtTimestamp(%f): expected %s, got %s", tt.seconds, tt.want, got)
		}
	}
}

func TestWriteSRT(t *testing.T) {
	scenes := []scene.Scene{
		{Text: "hello world foo", Duration: 3},
		{Text: "bar baz", Duration: 2},
	}
	cues := caption.Cues(scenes, style.DefaultConfig())

	var buf bytes.Buffer
	if err := WriteSRT(&buf, cues); err != nil {
		t.Fatalf("WriteSRT failed: %v", err)
	}

	out := buf.String()
	t.Logf("SRT:\n%s", out)

	wantBlocks := []string{
		"1\n00:00:00,000 --> 00:00:01,000\nhello\n",
		"2\n00:00:01,000 --> 00:00:02,000\nworld\n",
		"5\n00:00:04,000 --> 00:00:05,000\nbaz\n",
	}
	for _, block := range wantBlocks {
		if !strings.Contains(out, block) {
			t.Errorf("Missing block %q", block)
		}
	}
	if n := strings.Count(out, " --> "); n != 5 {
		t.Errorf("Expected 5 cues, got %d", n)
	}
}

func TestASSColor(t *testing.T) {
	tests := []struct {
		c    style.RGBA
		want string
	}{
		{style.RGBA{R: 255, G: 255, B: 255, A: 1}, "&H00FFFFFF"},
		{style.RGBA{R: 255, G: 0, B: 0, A: 0.6}, "&H660000FF"},
		{style.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0}, "&HFF563412"},
	}

	for _, tt := range tests {
		if got := assColor(tt.c); got != tt.want {
			t.Errorf("assColor(%+v): expected %s, got %s", tt.c, tt.want, got)
		}
	}
}

func TestWriteASS(t *testing.T) {
	cfg := style.DefaultConfig()
	cfg.BackgroundShape = style.Rounded
	paint, err := style.Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	cues := []caption.Cue{
		{Index: 1, Start: 0, End: 1.25, Text: "hello {world}"},
		{Index: 2, Start: 1.25, End: 62.5, Text: "two\nlines"},
	}

	var buf bytes.Buffer
	if err := WriteASS(&buf, cues, paint, 720, 1280); err != nil {
		t.Fatalf("WriteASS failed: %v", err)
	}
	out := buf.String()

	checks := []string{
		"PlayResX: 720\nPlayResY: 1280",
		"Style: Caption,Titan One,64,&H00FFFFFF,&H00FFFFFF,&H00000000,&H660000FF,",
		",3,8,0,2,10,10,512,1\n",
		"Dialogue: 0,0:00:00.00,0:00:01.25,Caption,,0,0,0,,HELLO (WORLD)\n",
		"Dialogue: 0,0:00:01.25,0:01:02.50,Caption,,0,0,0,,TWO\\NLINES\n",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("Missing %q in:\n%s", want, out)
		}
	}
}

func TestWriteASSNoBackground(t *testing.T) {
	cfg := style.DefaultConfig()
	cfg.Animation = style.Continuous
	paint, _ := style.Resolve(cfg)

	var buf bytes.Buffer
	WriteASS(&buf, []caption.Cue{{Start: 0, End: 1, Text: "Keep case"}}, paint, 1280, 720)
	out := buf.String()

	if !strings.Contains(out, ",&H80000000,") || !strings.Contains(out, ",1,3,0,2,10,10,288,1\n") {
		t.Errorf("Expected outline style without box:\n%s", out)
	}
	if !strings.Contains(out, ",,Keep case\n") {
		t.Errorf("Continuous captions should keep case:\n%s", out)
	}
}

func TestWriteSRTFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "captions.srt")
	cues := []caption.Cue{{Index: 1, Start: 0, End: 2, Text: "hi"}}

	if err := WriteSRTFile(cues, path); err != nil {
		t.Fatalf("WriteSRTFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "1\n00:00:00,000 --> 00:00:02,000\nhi\n\n" {
		t.Errorf("Unexpected file content: %q", data)
	}
}
