package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/docqa/internal/chat"
	"github.com/mithrel/docqa/pkg/api"
)

type fakeDocs struct {
	docs    []api.Document
	deleted []int64
	err     error
}

func (f *fakeDocs) ListDocuments(_ context.Context, skip, limit int) (api.DocumentList, error) {
	if f.err != nil {
		return api.DocumentList{}, f.err
	}
	end := min(len(f.docs), skip+limit)
	if skip > end {
		skip = end
	}
	return api.DocumentList{Total: len(f.docs), Documents: f.docs[skip:end]}, nil
}

func (f *fakeDocs) DeleteDocument(_ context.Context, id int64) (string, error) {
	f.deleted = append(f.deleted, id)
	return "Document deleted successfully", nil
}

type fakeChat struct {
	history []api.Message
	err     error
}

func (f *fakeChat) Ask(_ context.Context, id int64, q string) (chat.Exchange, error) {
	ex := chat.Exchange{
		Question: api.Message{DocumentID: id, Role: api.RoleUser, Content: q},
		Answer:   api.Message{DocumentID: id, Role: api.RoleAssistant, Content: "**answer**", Sources: []string{"Page 1"}},
	}
	if f.err != nil {
		ex.Answer = api.Message{DocumentID: id, Role: api.RoleAssistant, Content: chat.FallbackAnswer, Error: true}
	}
	return ex, f.err
}

func (f *fakeChat) History(_ context.Context, id int64, _ int) ([]api.Message, error) {
	return f.history, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func docs(n int) []api.Document {
	names := []string{"annual-report.pdf", "budget.pdf", "contract.pdf", "notes.pdf"}
	out := make([]api.Document, 0, n)
	now := time.Now()
	for i := 0; i < n; i++ {
		out = append(out, api.Document{ID: int64(i + 1), OriginalFilename: names[i%len(names)], ProcessedAt: &now})
	}
	return out
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func loaded(t *testing.T, opts Options) model {
	t.Helper()
	m := newModel(context.Background(), opts)
	msg := loadDocsCmd(context.Background(), opts.Docs)()
	m, _ = update(t, m, msg)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	return m
}

func TestLoadDocsPages(t *testing.T) {
	src := &fakeDocs{docs: docs(pageSize + 5)}
	msg := loadDocsCmd(context.Background(), src)().(docsLoadedMsg)
	require.NoError(t, msg.err)
	assert.Len(t, msg.docs, pageSize+5)
}

func TestLoadFailureShowsStatus(t *testing.T) {
	m := loaded(t, Options{Docs: &fakeDocs{err: errors.New("offline")}, Chat: &fakeChat{}})
	assert.Contains(t, m.status, "offline")
	assert.Contains(t, m.View(), "no documents")
}

func TestFilterNarrowsRows(t *testing.T) {
	m := loaded(t, Options{Docs: &fakeDocs{docs: docs(4)}, Chat: &fakeChat{}})
	require.Len(t, m.table.Rows(), 4)

	m, _ = update(t, m, key("/"))
	require.NotNil(t, m.filterUI)
	for _, r := range "bud" {
		m, _ = update(t, m, key(string(r)))
	}
	require.Len(t, m.docs, 1)
	assert.Equal(t, "budget.pdf", m.docs[0].DisplayName())

	m, _ = update(t, m, key("enter"))
	assert.Nil(t, m.filterUI)
	assert.Equal(t, "bud", m.filter)

	m, _ = update(t, m, key("esc"))
	assert.Empty(t, m.filter)
	assert.Len(t, m.docs, 4)
}

func TestFilterCancelRestores(t *testing.T) {
	m := loaded(t, Options{Docs: &fakeDocs{docs: docs(4)}, Chat: &fakeChat{}})
	m, _ = update(t, m, key("/"))
	m, _ = update(t, m, key("c"))
	m, _ = update(t, m, key("esc"))
	assert.Nil(t, m.filterUI)
	assert.Empty(t, m.filter)
	assert.Len(t, m.docs, 4)
}

func TestDeleteConfirmFlow(t *testing.T) {
	src := &fakeDocs{docs: docs(3)}
	var forgotten []int64
	m := loaded(t, Options{Docs: src, Chat: &fakeChat{}, Forget: func(_ context.Context, id int64) error {
		forgotten = append(forgotten, id)
		return nil
	}})

	m, cmd := update(t, m, key("d"))
	require.NotNil(t, m.confirm)
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Delete document?")

	m, _ = update(t, m, key("n"))
	assert.Nil(t, m.confirm)
	assert.Empty(t, src.deleted)

	m, _ = update(t, m, key("d"))
	m, cmd = update(t, m, key("y"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, []int64{1}, src.deleted)
	assert.Equal(t, []int64{1}, forgotten)
	assert.Len(t, m.docs, 2)
	assert.Contains(t, m.status, "Deleted annual-report.pdf")
}

func TestChatPaneAskAndBack(t *testing.T) {
	hist := []api.Message{{DocumentID: 1, Role: api.RoleUser, Content: "earlier"}}
	m := loaded(t, Options{Docs: &fakeDocs{docs: docs(2)}, Chat: &fakeChat{history: hist}})

	m, cmd := update(t, m, key("enter"))
	require.Equal(t, viewChat, m.view)
	require.NotNil(t, m.chat)
	require.NotNil(t, cmd)
	m, _ = update(t, m, historyCmd(context.Background(), m.opts.Chat, 1, 0)())
	assert.Len(t, m.chat.msgs, 1)

	// blank questions never reach the backend
	m, cmd = update(t, m, key("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, chat.ErrEmptyQuestion.Error(), m.chat.note)

	for _, r := range "why?" {
		m, _ = update(t, m, key(string(r)))
	}
	m, _ = update(t, m, key("enter"))
	assert.True(t, m.chat.waiting)
	require.Len(t, m.chat.msgs, 2)

	m, _ = update(t, m, askCmd(context.Background(), m.opts.Chat, 1, "why?")())
	assert.False(t, m.chat.waiting)
	require.Len(t, m.chat.msgs, 3)
	assert.Equal(t, "why?", m.chat.msgs[1].Content)
	assert.Equal(t, []string{"Page 1"}, m.chat.lastSources())
	assert.Contains(t, m.View(), "Sources: Page 1")

	m, _ = update(t, m, key("esc"))
	assert.Equal(t, viewDocs, m.view)
	assert.Nil(t, m.chat)
}

func TestChatPaneBackendError(t *testing.T) {
	m := loaded(t, Options{Docs: &fakeDocs{docs: docs(1)}, Chat: &fakeChat{err: errors.New("HTTP 500")}})
	m, _ = update(t, m, key("enter"))
	for _, r := range "q1" {
		m, _ = update(t, m, key(string(r)))
	}
	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, askCmd(context.Background(), m.opts.Chat, 1, "q1")())
	require.Len(t, m.chat.msgs, 2)
	assert.True(t, m.chat.msgs[1].Error)
	assert.Equal(t, "HTTP 500", m.chat.note)
}

func TestChatPaneCopiesAnswer(t *testing.T) {
	var copied string
	orig := copyText
	copyText = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyText = orig })

	m := loaded(t, Options{Docs: &fakeDocs{docs: docs(1)}, Chat: &fakeChat{}})
	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, key("ctrl+y"))
	assert.Equal(t, "No answer to copy yet.", m.chat.note)

	m, _ = update(t, m, askCmd(context.Background(), m.opts.Chat, 1, "q")())
	m, _ = update(t, m, key("ctrl+y"))
	assert.Equal(t, "answer", copied)
	assert.Equal(t, "Answer copied to clipboard.", m.chat.note)
}

func TestOpenStartsInChat(t *testing.T) {
	doc := docs(1)[0]
	m := newModel(context.Background(), Options{Docs: &fakeDocs{}, Chat: &fakeChat{}, Open: &doc})
	assert.Equal(t, viewChat, m.view)
	assert.NotNil(t, m.Init())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "", truncate("abc", 0))
}
