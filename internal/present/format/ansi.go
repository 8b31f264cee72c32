package format

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/docqa/internal/render"
)

// Palette styles rendered blocks for a terminal.
type Palette struct {
	Bold   lipgloss.Style
	Code   lipgloss.Style
	Bullet lipgloss.Style
}

func DefaultPalette() Palette {
	return Palette{
		Bold:   lipgloss.NewStyle().Bold(true),
		Code:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Background(lipgloss.Color("236")),
		Bullet: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func (p Palette) text(t render.Text) string {
	var b strings.Builder
	for _, s := range t {
		txt := render.TerminalSafe(s.Text)
		if s.Style == 0 {
			b.WriteString(txt)
			continue
		}
		st := lipgloss.NewStyle()
		if s.Style&render.Code != 0 {
			st = st.Inherit(p.Code)
		}
		if s.Style&render.Bold != 0 {
			st = st.Inherit(p.Bold)
		}
		b.WriteString(st.Render(txt))
	}
	return b.String()
}

// ANSI renders blocks as styled terminal text wrapped to width. List items
// wrap under their own text, not under the marker.
func (p Palette) ANSI(blocks []render.Block, width int) string {
	parts := make([]string, 0, len(blocks))
	for _, blk := range blocks {
		switch x := blk.(type) {
		case render.Paragraph:
			s := p.text(x.Content)
			if width > 0 {
				s = lipgloss.NewStyle().Width(width).Render(s)
			}
			parts = append(parts, s)
		case render.List:
			lines := make([]string, 0, len(x.Items))
			for i, it := range x.Items {
				marker := "• "
				if x.Ordered {
					marker = strconv.Itoa(i+1) + ". "
				}
				body := p.text(it)
				if w := width - lipgloss.Width(marker); width > 0 && w > 0 {
					body = lipgloss.NewStyle().Width(w).Render(body)
				}
				lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, p.Bullet.Render(marker), body))
			}
			parts = append(parts, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(parts, "\n\n")
}
