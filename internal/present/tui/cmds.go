package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/docqa/internal/chat"
	"github.com/mithrel/docqa/pkg/api"
)

const pageSize = 100

// docsLoadedMsg carries a full reload of the document list.
type docsLoadedMsg struct {
	docs []api.Document
	err  error
	dur  time.Duration
}

// deleteResultMsg conveys the outcome of a delete operation back to Update.
type deleteResultMsg struct {
	doc api.Document
	msg string
	err error
	dur time.Duration
}

// historyMsg carries the stored transcript of the document opened in the chat pane.
type historyMsg struct {
	documentID int64
	msgs       []api.Message
	err        error
}

// answerMsg carries the outcome of one question.
type answerMsg struct {
	documentID int64
	ex         chat.Exchange
	err        error
}

// loadDocsCmd pages through the whole document list.
func loadDocsCmd(ctx context.Context, src Documents) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		var all []api.Document
		for {
			page, err := src.ListDocuments(ctx, len(all), pageSize)
			if err != nil {
				return docsLoadedMsg{err: err, dur: time.Since(start)}
			}
			all = append(all, page.Documents...)
			if len(page.Documents) == 0 || len(all) >= page.Total {
				break
			}
		}
		return docsLoadedMsg{docs: all, dur: time.Since(start)}
	}
}

// deleteCmd deletes a document on the server, then drops its local state.
func deleteCmd(ctx context.Context, src Documents, forget func(context.Context, int64) error, doc api.Document) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		msg, err := src.DeleteDocument(ctx, doc.ID)
		if err == nil && forget != nil {
			err = forget(ctx, doc.ID)
		}
		return deleteResultMsg{doc: doc, msg: msg, err: err, dur: time.Since(start)}
	}
}

func historyCmd(ctx context.Context, conv Conversations, documentID int64, limit int) tea.Cmd {
	return func() tea.Msg {
		msgs, err := conv.History(ctx, documentID, limit)
		return historyMsg{documentID: documentID, msgs: msgs, err: err}
	}
}

func askCmd(ctx context.Context, conv Conversations, documentID int64, question string) tea.Cmd {
	return func() tea.Msg {
		ex, err := conv.Ask(ctx, documentID, question)
		return answerMsg{documentID: documentID, ex: ex, err: err}
	}
}
