package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"
)

// filterModal is a foreground modal with a fuzzy name filter. The table
// follows the input as it is typed.
type filterModal struct {
	input    textinput.Model
	previous string
	width    int
	height   int
	padX     int
	padY     int
	box      lipglossv2.Style
}

func newFilterModal(current string, termW, termH int) *filterModal {
	m := &filterModal{padX: 2, padY: 1, previous: current}
	m.input = textinput.New()
	m.input.Prompt = "name: "
	m.input.Placeholder = "annual report"
	m.input.SetValue(current)
	m.input.Focus()
	m.resizeForTerm(termW, termH)
	return m
}

func (m *filterModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := int(float64(termW) * 0.5)
	if termW < 80 {
		w = termW - 4
	}
	w = min(max(w, 36), 80)
	m.width, m.height = w, 7
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(m.height).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	innerW := w - 2 - m.padX*2
	m.input.Width = max(12, innerW-lipgloss.Width(m.input.Prompt)-1)
}

func (m *filterModal) value() string { return m.input.Value() }

func (m *filterModal) update(msg tea.Msg) (*filterModal, tea.Cmd) {
	if x, ok := msg.(tea.WindowSizeMsg); ok {
		m.resizeForTerm(x.Width, x.Height)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *filterModal) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("Filter documents")
	help := lipgloss.NewStyle().Faint(true).Render("enter=keep • esc=cancel • ctrl+x=clear")
	return m.box.Render(header + "\n\n" + m.input.View() + "\n\n" + help)
}

func (m *filterModal) Init() tea.Cmd                           { return nil }
func (m *filterModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return m.update(msg) }
