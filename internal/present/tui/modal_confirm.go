package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/docqa/pkg/api"
)

// confirmModal asks before a document is deleted.
type confirmModal struct {
	doc    api.Document
	width  int
	height int
	box    lipglossv2.Style
}

func newConfirmModal(doc api.Document, termW, termH int) *confirmModal {
	if termW <= 0 {
		termW = 80
	}
	w := min(max(termW/2, 40), 70)
	m := &confirmModal{doc: doc, width: w, height: 7}
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(m.height).
		Padding(1, 2).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("160"))
	return m
}

func (m *confirmModal) View() string {
	title := lipglossv2.NewStyle().Bold(true).Render("Delete document?")
	name := truncate(m.doc.DisplayName(), m.width-6)
	help := lipglossv2.NewStyle().Faint(true).Render("y=delete • n/esc=keep")
	return m.box.Render(fmt.Sprintf("%s\n\n%s\n\n%s", title, name, help))
}

func (m *confirmModal) Init() tea.Cmd                           { return nil }
func (m *confirmModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return m, nil }
