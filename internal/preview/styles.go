package preview

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ivlev/captionsync/internal/style"
)

const (
	colorPrimary = "#7D56F4"
	colorInfo    = "#626262"
	colorError   = "#FF0000"
	colorActive  = "#FAFAFA"
)

var (
	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorPrimary)).
		MarginBottom(1)

	InfoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorInfo))

	ErrorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorError))

	ActiveStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorActive))

	BarStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorPrimary))
)

// captionStyle maps resolved paint onto terminal styling. The terminal has
// one font size, so only colours, box and border shape carry over.
func captionStyle(p style.PaintParams) lipgloss.Style {
	s := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(p.Color.Hex())).
		Padding(0, 2)

	if p.Background != nil {
		s = s.Background(lipgloss.Color(p.Background.Hex()))
		if p.BackgroundRadiusPx > 0 {
			s = s.Border(lipgloss.RoundedBorder())
		} else {
			s = s.Border(lipgloss.NormalBorder())
		}
		s = s.BorderForeground(lipgloss.Color(p.Background.Hex()))
	} else {
		s = s.Border(lipgloss.HiddenBorder())
	}
	return s
}
