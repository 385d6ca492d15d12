package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/ivlev/captionsync/internal/caption"
	"github.com/ivlev/captionsync/internal/style"
)

const assStyleName = "Caption"

// WriteASS writes cues as an Advanced SubStation script whose single style
// mirrors the resolved paint: colours, outline, optional opaque box and the
// vertical offset as a bottom margin.
func WriteASS(w io.Writer, cues []caption.Cue, paint style.PaintParams, width, height int) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "[Script Info]\nScriptType: v4.00+\nPlayResX: %d\nPlayResY: %d\nScaledBorderAndShadow: yes\n\n", width, height)

	bw.WriteString("[V4+ Styles]\n")
	bw.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(bw, "Style: %s\n\n", assStyle(paint, height))

	bw.WriteString("[Events]\n")
	bw.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, cue := range cues {
		fmt.Fprintf(bw, "Dialogue: 0,%s,%s,%s,,0,0,0,,%s\n",
			assTime(cue.Start), assTime(cue.End), assStyleName, sanitizeASS(paint.Apply(cue.Text)))
	}
	return bw.Flush()
}

// WriteASSFile writes the script to path, creating its directory.
func WriteASSFile(cues []caption.Cue, paint style.PaintParams, width, height int, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteASS(w, cues, paint, width, height) })
}

func assStyle(p style.PaintParams, height int) string {
	back := "&H80000000"
	borderStyle := 1 // outline + shadow
	outline := 3
	if p.Background != nil {
		back = assColor(*p.Background)
		borderStyle = 3 // opaque box
		outline = p.PaddingYPx
	}
	marginV := int(math.Round(float64(height) * p.VerticalOffsetPct / 100))

	fields := []string{
		assStyleName,
		p.FontFamily,
		fmt.Sprint(p.FontSizePx),
		assColor(p.Color),
		assColor(p.Color),
		assColor(p.Stroke),
		back,
		"-1", "0", "0", "0",
		"100", "100", "0", "0",
		fmt.Sprint(borderStyle),
		fmt.Sprint(outline),
		"0",
		"2", // bottom centre
		"10", "10",
		fmt.Sprint(marginV),
		"1",
	}
	return strings.Join(fields, ",")
}

// assColor encodes c as &HAABBGGRR, where AA is transparency (00 opaque).
func assColor(c style.RGBA) string {
	return fmt.Sprintf("&H%02X%02X%02X%02X", 255-c.Alpha8(), c.B, c.G, c.R)
}

// assTime formats seconds as H:MM:SS.cc
func assTime(seconds float64) string {
	cs := int64(0)
	if seconds > 0 && !math.IsNaN(seconds) {
		cs = int64(math.Round(seconds * 100))
	}
	return fmt.Sprintf("%d:%02d:%02d.%02d", cs/360000, cs/6000%60, cs/100%60, cs%100)
}

func sanitizeASS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	s = strings.ReplaceAll(s, "\r\n", "\\N")
	s = strings.ReplaceAll(s, "\n", "\\N")
	return strings.TrimSpace(s)
}
