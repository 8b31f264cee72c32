// Package export writes chat transcripts as standalone HTML pages.
package export

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mithrel/docqa/internal/render"
	"github.com/mithrel/docqa/pkg/api"
)

//go:embed transcript.html.tmpl
var pageTemplate string

var page = template.Must(template.New("transcript").Parse(pageTemplate))

type pageData struct {
	Title      string
	Document   api.Document
	Pages      int
	ExportedAt string
	Messages   []messageView
}

type messageView struct {
	Role    string
	Speaker string
	Time    string
	Error   bool
	// Body is the block renderer's sanitized markup.
	Body    template.HTML
	Sources []string
}

// Now is the export timestamp source.
var Now = time.Now

// Transcript writes the messages of a document as an HTML page. Message text
// goes through the block renderer; everything else is escaped by the template.
func Transcript(w io.Writer, title string, doc api.Document, msgs []api.Message) error {
	if title == "" {
		title = doc.DisplayName()
	}
	if title == "" {
		title = "docqa transcript"
	}
	data := pageData{
		Title:      title,
		Document:   doc,
		ExportedAt: Now().Local().Format("2006-01-02 15:04"),
		Messages:   make([]messageView, 0, len(msgs)),
	}
	if doc.PageCount != nil {
		data.Pages = *doc.PageCount
	}
	for _, m := range msgs {
		v := messageView{
			Role:    string(m.Role),
			Speaker: "You",
			Error:   m.Error,
			Body:    template.HTML(render.HTML(render.Render(m.Content))),
			Sources: m.Sources,
		}
		if m.Role == api.RoleAssistant {
			v.Speaker = "Assistant"
		} else {
			v.Role = string(api.RoleUser)
		}
		if !m.CreatedAt.IsZero() {
			v.Time = m.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		data.Messages = append(data.Messages, v)
	}
	return page.Execute(w, data)
}

// ToFile writes the transcript to filename, or to a name derived from the
// document when filename is empty. It returns the absolute path written.
func ToFile(filename, title string, doc api.Document, msgs []api.Message) (string, error) {
	if len(msgs) == 0 {
		return "", fmt.Errorf("no messages to export")
	}
	if filename == "" {
		base := strings.TrimSuffix(doc.DisplayName(), filepath.Ext(doc.DisplayName()))
		if base == "" {
			base = "docqa"
		}
		filename = fmt.Sprintf("%s-chat-%s.html", sanitizeFilename(base), Now().Format("2006-01-02-150405"))
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".html") {
		filename += ".html"
	}

	f, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	if err := Transcript(f, title, doc, msgs); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to generate HTML: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(filename); err == nil {
		return abs, nil
	}
	return filename, nil
}

func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	name = replacer.Replace(name)
	if r := []rune(name); len(r) > 50 {
		name = string(r[:50])
	}
	return name
}
