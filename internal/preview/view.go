package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ivlev/captionsync/internal/timeline"
)

const maxSceneText = 48

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("captionsync preview"))
	b.WriteString("\n")

	caption := m.paint.Apply(m.caption)
	if caption == "" {
		caption = " "
	}
	box := captionStyle(m.paint).Render(caption)
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box))
	b.WriteString("\n\n")

	b.WriteString(m.progressBar())
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("%s / %s  %s  speed %.1fx  %d word(s)  %s",
		timeline.FormatClock(m.state.CurrentTime),
		timeline.FormatClock(m.state.TotalDuration),
		m.state.Mode,
		m.style.Speed,
		m.style.WordsPerCaption,
		m.style.Animation,
	)))
	b.WriteString("\n\n")

	for _, span := range timeline.Spans(m.scenes) {
		text := m.scenes[span.Index].Text
		if r := []rune(text); len(r) > maxSceneText {
			text = string(r[:maxSceneText]) + "..."
		}
		line := fmt.Sprintf("%d. [%s] %s", span.Index+1, timeline.FormatClock(span.Start), text)
		if span.Index == m.state.ActiveScene {
			b.WriteString(ActiveStyle.Render("> " + line))
		} else {
			b.WriteString(InfoStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if len(m.scenes) == 0 {
		b.WriteString(InfoStyle.Render("  no scenes"))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("space play/pause | ←/→ seek | s stop | +/- speed | w/W words | a animation | q quit"))
	return b.String()
}

func (m Model) progressBar() string {
	width := m.width - 10
	if width > 60 {
		width = 60
	}
	if width < 10 {
		width = 10
	}
	filled := int(m.state.Percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return BarStyle.Render(bar) + fmt.Sprintf(" %3.0f%%", m.state.Percent)
}
