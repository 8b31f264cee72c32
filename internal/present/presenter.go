package present

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/mithrel/docqa/internal/present/format"
	"github.com/mithrel/docqa/internal/present/tui"
	"github.com/mithrel/docqa/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeTUI
)

func (m Mode) String() string {
	switch m {
	case ModePretty:
		return "pretty"
	case ModeJSON:
		return "json"
	case ModeNDJSON:
		return "ndjson"
	case ModeTUI:
		return "tui"
	default:
		return "plain"
	}
}

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	Pretty     format.PrettyOptions
	// TUI is used when Mode is ModeTUI.
	TUI tui.Options
}

// ParseMode parses "plain", "pretty", "json", "ndjson" or "tui".
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	case "tui":
		return ModeTUI, true
	default:
		return ModePlain, false
	}
}

// RenderDocuments renders a document list according to options.
func RenderDocuments(ctx context.Context, w io.Writer, docs []api.Document, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, docs, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, docs)
	case ModePretty:
		return format.WritePrettyDocuments(w, docs, opts.Pretty)
	case ModeTUI:
		return tui.Run(ctx, opts.TUI)
	default:
		return format.WritePlainDocuments(w, docs, opts.Headers)
	}
}

// NewDocumentStream returns a writer that prints pages of documents as they
// arrive. Pretty output is buffered since glamour needs the whole table.
func NewDocumentStream(w io.Writer, opts Options) format.StreamWriter[api.Document] {
	switch opts.Mode {
	case ModeJSON:
		return format.NewJSONStreamWriter[api.Document](w, opts.JSONIndent)
	case ModeNDJSON:
		return format.NewNDJSONStreamWriter[api.Document](w)
	case ModePretty:
		return &prettyStream{w: w, opts: opts.Pretty}
	default:
		return format.NewPlainStreamWriter(w, opts.Headers)
	}
}

type prettyStream struct {
	w    io.Writer
	opts format.PrettyOptions
	docs []api.Document
}

func (p *prettyStream) Write(docs []api.Document) error {
	p.docs = append(p.docs, docs...)
	return nil
}

func (p *prettyStream) Close() error {
	return format.WritePrettyDocuments(p.w, p.docs, p.opts)
}

// RenderDocument renders a single document, with chat readiness when known.
func RenderDocument(w io.Writer, d api.Document, info *api.ChatInfo, opts Options) error {
	switch opts.Mode {
	case ModeJSON, ModeNDJSON:
		out := struct {
			api.Document
			ReadyForChat *bool `json:"ready_for_chat,omitempty"`
		}{Document: d}
		if info != nil {
			out.ReadyForChat = &info.ReadyForChat
		}
		return format.WriteJSON(w, out, opts.Mode == ModeJSON && opts.JSONIndent)
	case ModePretty:
		return format.WritePrettyDocument(w, d, info, opts.Pretty)
	case ModeTUI:
		return errors.New("tui output is not supported for a single document; use `docqa chat`")
	default:
		return format.WritePlainDocument(w, d, info)
	}
}

// RenderMessages renders a transcript (or a single exchange) according to options.
func RenderMessages(w io.Writer, title string, msgs []api.Message, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, format.JSONMessages(msgs), opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, format.JSONMessages(msgs))
	case ModePretty:
		return format.WritePrettyMessages(w, title, msgs, opts.Pretty)
	case ModeTUI:
		return errors.New("tui output is not supported here; use `docqa chat`")
	default:
		return format.WritePlainMessages(w, msgs)
	}
}
