// Package tui is the interactive dashboard: a document table with a chat
// pane per document.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/docqa/internal/chat"
	"github.com/mithrel/docqa/internal/present/format"
	"github.com/mithrel/docqa/pkg/api"
)

type Documents interface {
	ListDocuments(ctx context.Context, skip, limit int) (api.DocumentList, error)
	DeleteDocument(ctx context.Context, id int64) (string, error)
}

type Conversations interface {
	Ask(ctx context.Context, documentID int64, question string) (chat.Exchange, error)
	History(ctx context.Context, documentID int64, limit int) ([]api.Message, error)
}

type Options struct {
	Docs Documents
	Chat Conversations
	// Forget drops local state of a deleted document; optional.
	Forget       func(ctx context.Context, documentID int64) error
	HistoryLimit int
	// Open starts in the chat pane of this document.
	Open            *api.Document
	InitialStatus   string
	InitialDuration time.Duration
	Headers         bool
}

type view int

const (
	viewDocs view = iota
	viewChat
)

type model struct {
	ctx  context.Context
	opts Options
	view view

	table        table.Model
	all          []api.Document
	docs         []api.Document
	filter       string
	loading      bool
	width        int
	height       int
	status       string
	lastDuration time.Duration

	confirm  *confirmModal
	filterUI *filterModal
	info     *infoModal
	chat     *chatPane
	palette  format.Palette
}

// Run opens the dashboard and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	m := newModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func newModel(ctx context.Context, opts Options) model {
	m := model{
		ctx:          ctx,
		opts:         opts,
		loading:      true,
		status:       opts.InitialStatus,
		lastDuration: opts.InitialDuration,
		palette:      format.DefaultPalette(),
	}
	m.initTable()
	if opts.Open != nil {
		m.openChat(*opts.Open)
	}
	return m
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadDocsCmd(m.ctx, m.opts.Docs)}
	if m.chat != nil {
		cmds = append(cmds, historyCmd(m.ctx, m.opts.Chat, m.chat.doc.ID, m.opts.HistoryLimit), textinput.Blink)
	}
	return tea.Batch(cmds...)
}

func (m *model) openChat(doc api.Document) {
	m.chat = newChatPane(doc, m.palette, m.width, m.height)
	m.view = viewChat
	if doc.ProcessedAt == nil && doc.ID != 0 {
		m.chat.note = "This document is still being processed; answers may be incomplete."
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.applyLayout()
		if m.chat != nil {
			m.chat.resize(msg.Width, msg.Height)
		}
		if m.info != nil {
			m.info.resizeForTerm(msg.Width, msg.Height)
		}
		if m.filterUI != nil {
			m.filterUI.resizeForTerm(msg.Width, msg.Height)
		}
		return m, nil
	case docsLoadedMsg:
		m.loading = false
		m.lastDuration = msg.dur
		if msg.err != nil {
			m.status = fmt.Sprintf("Load failed: %v", msg.err)
			return m, nil
		}
		m.all = msg.docs
		m.applyFilter()
		m.status = ""
		return m, nil
	case deleteResultMsg:
		m.lastDuration = msg.dur
		if msg.err != nil {
			m.status = fmt.Sprintf("Delete failed: %v", msg.err)
			return m, nil
		}
		m.removeDocument(msg.doc.ID)
		m.status = fmt.Sprintf("Deleted %s", msg.doc.DisplayName())
		return m, nil
	case historyMsg, answerMsg:
		if m.chat == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.chat, cmd = m.chat.update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.confirm != nil:
			return m.updateConfirm(msg)
		case m.filterUI != nil:
			return m.updateFilter(msg)
		case m.info != nil:
			return m.updateInfo(msg)
		case m.view == viewChat:
			return m.updateChat(msg)
		}
		return m.updateTable(msg)
	}

	// spinner ticks and anything else belong to the chat pane
	if m.chat != nil {
		var cmd tea.Cmd
		m.chat, cmd = m.chat.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" && !m.chat.waiting {
		m.view = viewDocs
		m.chat = nil
		return m, nil
	}
	if msg.String() == "enter" {
		if m.chat.waiting {
			return m, nil
		}
		q, err := chat.Validate(m.chat.input.Value())
		if err != nil {
			m.chat.note = err.Error()
			return m, nil
		}
		m.chat.send(q)
		return m, tea.Batch(askCmd(m.ctx, m.opts.Chat, m.chat.doc.ID, q), m.chat.spin.Tick)
	}
	var cmd tea.Cmd
	m.chat, cmd = m.chat.update(msg)
	return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		doc := m.confirm.doc
		m.confirm = nil
		m.status = fmt.Sprintf("Deleting %s…", doc.DisplayName())
		return m, deleteCmd(m.ctx, m.opts.Docs, m.opts.Forget, doc)
	case "n", "N", "esc", "q":
		m.confirm = nil
		m.status = "Delete cancelled"
	}
	return m, nil
}

func (m model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filterUI = nil
		return m, nil
	case "esc":
		m.filter = m.filterUI.previous
		m.filterUI = nil
		m.applyFilter()
		return m, nil
	case "ctrl+x":
		m.filterUI.input.SetValue("")
	}
	var cmd tea.Cmd
	m.filterUI, cmd = m.filterUI.update(msg)
	m.filter = m.filterUI.value()
	m.applyFilter()
	return m, cmd
}

func (m model) updateInfo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "i":
		m.info = nil
		return m, nil
	}
	var cmd tea.Cmd
	m.info, cmd = m.info.update(msg)
	return m, cmd
}

func (m model) View() string {
	var base string
	if m.view == viewChat && m.chat != nil {
		base = m.chat.View()
	} else {
		base = m.tableView()
	}
	switch {
	case m.confirm != nil:
		return m.renderOverlay(base, m.confirm.View(), m.confirm.width, m.confirm.height)
	case m.filterUI != nil:
		return m.renderOverlay(base, m.filterUI.View(), m.filterUI.width, m.filterUI.height)
	case m.info != nil:
		return m.renderOverlay(base, m.info.View(), m.info.width, m.info.height)
	}
	return base
}
