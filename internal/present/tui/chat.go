package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/docqa/internal/chat"
	"github.com/mithrel/docqa/internal/present/format"
	"github.com/mithrel/docqa/internal/render"
	"github.com/mithrel/docqa/pkg/api"
)

// copyText puts text on the system clipboard.
var copyText = clipboard.WriteAll

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	userLabel      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faint          = lipgloss.NewStyle().Faint(true)
)

// chatPane shows the transcript of one document and takes new questions.
type chatPane struct {
	doc     api.Document
	msgs    []api.Message
	vp      viewport.Model
	input   textinput.Model
	spin    spinner.Model
	palette format.Palette
	waiting bool
	// pending is the index of the optimistic question while waiting
	pending int
	note    string
	width   int
	height  int
}

func newChatPane(doc api.Document, palette format.Palette, termW, termH int) *chatPane {
	c := &chatPane{doc: doc, palette: palette, pending: -1}
	c.input = textinput.New()
	c.input.Placeholder = "Ask a question about this document…"
	c.input.Prompt = "> "
	c.input.CharLimit = chat.MaxQuestionLen
	c.input.Focus()
	c.spin = spinner.New(spinner.WithSpinner(spinner.Dot))
	c.vp = viewport.New(80, 20)
	c.resize(termW, termH)
	return c
}

func (c *chatPane) resize(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	c.width, c.height = termW, termH
	// title, sources, note, input, footer
	c.vp.Width = termW
	c.vp.Height = max(3, termH-6)
	c.input.Width = max(10, termW-lipgloss.Width(c.input.Prompt)-1)
	c.refresh()
}

// send shows the question right away; the stored copy replaces it once the
// answer arrives.
func (c *chatPane) send(question string) {
	c.msgs = append(c.msgs, api.Message{DocumentID: c.doc.ID, Role: api.RoleUser, Content: question})
	c.pending = len(c.msgs) - 1
	c.waiting = true
	c.note = ""
	c.input.Reset()
	c.refresh()
}

func (c *chatPane) update(msg tea.Msg) (*chatPane, tea.Cmd) {
	switch msg := msg.(type) {
	case historyMsg:
		if msg.documentID != c.doc.ID {
			return c, nil
		}
		if msg.err != nil {
			c.note = fmt.Sprintf("History unavailable: %v", msg.err)
			return c, nil
		}
		c.msgs = append(msg.msgs, c.msgs...)
		if c.pending >= 0 {
			c.pending += len(msg.msgs)
		}
		c.refresh()
		return c, nil
	case answerMsg:
		if msg.documentID != c.doc.ID {
			return c, nil
		}
		c.waiting = false
		if c.pending >= 0 && c.pending < len(c.msgs) {
			c.msgs = append(c.msgs[:c.pending], c.msgs[c.pending+1:]...)
		}
		c.pending = -1
		if msg.ex.Question.Content != "" {
			c.msgs = append(c.msgs, msg.ex.Question)
		}
		if msg.ex.Answer.Content != "" {
			c.msgs = append(c.msgs, msg.ex.Answer)
		}
		if msg.err != nil {
			c.note = msg.err.Error()
		}
		c.refresh()
		return c, nil
	case spinner.TickMsg:
		if !c.waiting {
			return c, nil
		}
		var cmd tea.Cmd
		c.spin, cmd = c.spin.Update(msg)
		return c, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "pgup", "pgdown", "ctrl+u", "ctrl+d", "up", "down":
			var cmd tea.Cmd
			c.vp, cmd = c.vp.Update(msg)
			return c, cmd
		case "ctrl+y":
			c.copyLastAnswer()
			return c, nil
		}
		if c.waiting {
			return c, nil
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}
	// cursor blink
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// transcript renders all messages for the viewport width.
func (c *chatPane) transcript() string {
	if len(c.msgs) == 0 {
		return faint.Render("No questions yet. Ask anything about " + c.doc.DisplayName() + ".")
	}
	parts := make([]string, 0, len(c.msgs))
	for _, m := range c.msgs {
		var label string
		if m.Role == api.RoleUser {
			label = userLabel.Render("You")
		} else {
			label = assistantLabel.Render("Assistant")
		}
		if !m.CreatedAt.IsZero() {
			label += faint.Render(" · " + m.CreatedAt.Local().Format("15:04"))
		}
		body := c.palette.ANSI(format.MessageBlocks(m), c.vp.Width)
		if m.Error {
			body = errorStyle.Render(body)
		}
		parts = append(parts, label+"\n"+body)
	}
	return strings.Join(parts, "\n\n")
}

func (c *chatPane) refresh() {
	c.vp.SetContent(c.transcript())
	c.vp.GotoBottom()
}

func (c *chatPane) copyLastAnswer() {
	for i := len(c.msgs) - 1; i >= 0; i-- {
		m := c.msgs[i]
		if m.Role != api.RoleAssistant || m.Error {
			continue
		}
		if err := copyText(render.PlainText(format.MessageBlocks(m))); err != nil {
			c.note = "Copy failed: " + err.Error()
			return
		}
		c.note = "Answer copied to clipboard."
		return
	}
	c.note = "No answer to copy yet."
}

// lastSources returns the sources of the latest answer.
func (c *chatPane) lastSources() []string {
	for i := len(c.msgs) - 1; i >= 0; i-- {
		if c.msgs[i].Role == api.RoleAssistant {
			return c.msgs[i].Sources
		}
	}
	return nil
}

func (c *chatPane) View() string {
	title := titleStyle.Render(truncate(c.doc.DisplayName(), c.width-4))
	if c.doc.PageCount != nil {
		title += faint.Render(fmt.Sprintf("  %d pages", *c.doc.PageCount))
	}

	var sources string
	if src := c.lastSources(); len(src) > 0 {
		sources = faint.Render(truncate("Sources: "+strings.Join(src, ", "), c.width))
	}

	var prompt string
	if c.waiting {
		prompt = c.spin.View() + " Thinking…"
	} else {
		prompt = c.input.View()
	}

	note := ""
	if c.note != "" {
		note = errorStyle.Render(truncate(c.note, c.width))
	}
	help := faint.Render(spread("enter=send • ctrl+y=copy • esc=back • pgup/pgdn=scroll", fmt.Sprintf("%d messages", len(c.msgs)), c.width))

	return strings.Join([]string{title, c.vp.View(), sources, note, prompt, help}, "\n")
}
