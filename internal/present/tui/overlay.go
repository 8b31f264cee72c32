package tui

import (
	"github.com/charmbracelet/lipgloss/v2"
)

// renderOverlay dims base and composes fg centered on top of it.
func (m model) renderOverlay(base, fg string, fgW, fgH int) string {
	termW, termH := m.width, m.height
	if termW <= 0 {
		termW = 80
	}
	if termH <= 0 {
		termH = 24
	}
	x := max(0, (termW-fgW)/2)
	y := max(0, (termH-fgH)/2)

	back := lipgloss.NewLayer(lipgloss.NewStyle().Faint(true).Render(base)).
		Width(termW).
		Height(termH)
	front := lipgloss.NewLayer(fg).
		Width(fgW).
		Height(fgH).
		X(x).
		Y(y)
	return lipgloss.NewCanvas(back, front).Render()
}
