package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/docqa/internal/render"
	"github.com/mithrel/docqa/pkg/api"
)

type PrettyOptions struct {
	Style string
	Width int
}

func (o PrettyOptions) renderer() (*glamour.TermRenderer, error) {
	style := o.Style
	if style == "" {
		style = "dracula"
	}
	width := o.Width
	if width <= 0 {
		width = 80
	}
	return glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
}

func renderPretty(w io.Writer, md string, o PrettyOptions) error {
	r, err := o.renderer()
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func cell(s string) string { return render.Text{{Text: s}}.Markdown() }

// WritePrettyDocuments renders the document list as a glamour table.
func WritePrettyDocuments(w io.Writer, docs []api.Document, o PrettyOptions) error {
	var b strings.Builder
	b.WriteString("| ID | Name | Pages | Size | Uploaded | Status |\n")
	b.WriteString("|---:|---|---:|---:|---|---|\n")
	for _, d := range docs {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			d.ID, cell(d.DisplayName()), Pages(d), Size(d), Uploaded(d), DocumentStatus(d))
	}
	if len(docs) == 0 {
		b.Reset()
		b.WriteString("*No documents yet.*\n")
	}
	return renderPretty(w, b.String(), o)
}

// WritePrettyDocument renders one document as a glamour card.
func WritePrettyDocument(w io.Writer, d api.Document, info *api.ChatInfo, o PrettyOptions) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", cell(d.DisplayName()))
	fmt.Fprintf(&b, "> **ID:** %d | **Pages:** %s | **Size:** %s\n>\n", d.ID, Pages(d), Size(d))
	fmt.Fprintf(&b, "> **Uploaded:** %s | **Status:** %s\n", Uploaded(d), DocumentStatus(d))
	if info != nil {
		ready := "no"
		if info.ReadyForChat {
			ready = "yes"
		}
		fmt.Fprintf(&b, ">\n> **Ready for chat:** %s\n", ready)
	}
	return renderPretty(w, b.String(), o)
}
