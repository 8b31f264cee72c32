package tui

import (
	"bytes"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/docqa/internal/present/format"
	"github.com/mithrel/docqa/pkg/api"
)

// infoModal is a foreground modal showing a document card rendered with
// glamour inside a scrollable viewport.
type infoModal struct {
	doc     api.Document
	vp      viewport.Model
	width   int
	height  int
	padX    int
	padY    int
	box     lipglossv2.Style
	content string
}

func newInfoModal(doc api.Document, termW, termH int) *infoModal {
	m := &infoModal{doc: doc, padX: 2, padY: 1}
	m.resizeForTerm(termW, termH)
	return m
}

func (m *infoModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	// 60% width, or nearly full width if terminal is small (<80 cols)
	w := int(float64(termW) * 0.6)
	if termW < 80 {
		w = termW - 4
	}
	if w < 40 {
		w = max(32, termW-2)
	}
	h := int(float64(termH) * 0.5)
	if h < 10 {
		h = max(8, termH-1)
	}
	m.width, m.height = w, h
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	innerW := max(10, w-2-m.padX*2) // borders + padding
	innerH := max(5, h-2-m.padY*2)
	if m.vp.Width == 0 {
		m.vp = viewport.New(innerW, innerH)
	} else {
		m.vp.Width = innerW
		m.vp.Height = innerH
	}
	m.render(innerW)
}

// render re-renders the card at the current width.
func (m *infoModal) render(width int) {
	var buf bytes.Buffer
	if err := format.WritePrettyDocument(&buf, m.doc, nil, format.PrettyOptions{Width: width}); err != nil {
		_ = format.WritePlainDocument(&buf, m.doc, nil)
	}
	m.content = buf.String()
	m.vp.SetContent(m.content)
}

func (m *infoModal) update(msg tea.Msg) (*infoModal, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resizeForTerm(x.Width, x.Height)
		return m, nil
	case tea.KeyMsg:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *infoModal) Init() tea.Cmd                           { return nil }
func (m *infoModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return m.update(msg) }
func (m *infoModal) View() string                            { return m.box.Render(m.vp.View()) }
