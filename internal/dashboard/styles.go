package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/phonebook/internal/book"
)

var (
	accentColor = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dimColor    = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}
	okColor     = lipgloss.AdaptiveColor{Light: "2", Dark: "10"}
	errColor    = lipgloss.AdaptiveColor{Light: "1", Dark: "9"}

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	cursorStyle = lipgloss.NewStyle().Foreground(accentColor)
	dimStyle    = lipgloss.NewStyle().Foreground(dimColor)
	okStyle     = lipgloss.NewStyle().Foreground(okColor)
	errStyle    = lipgloss.NewStyle().Foreground(errColor)
)

// NoticeBadge renders a notice with a colored ✓ or ✗ indicator.
func NoticeBadge(n book.Notice) string {
	if n.Level == book.Failure {
		return errStyle.Render("✗") + " " + n.Text
	}
	return okStyle.Render("✓") + " " + n.Text
}

// FrameStyle returns a lipgloss style with an accent-colored rounded border.
func FrameStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1)
}

// frameChrome is the number of lines and columns consumed by the frame's
// border and padding.
const (
	frameChromeLines = 2
	frameChromeCols  = 4
)
