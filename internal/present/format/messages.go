package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/mithrel/docqa/internal/render"
	"github.com/mithrel/docqa/pkg/api"
)

func speaker(r api.Role) string {
	if r == api.RoleUser {
		return "you"
	}
	return "assistant"
}

// MessageBlocks renders a stored message body into blocks.
func MessageBlocks(m api.Message) []render.Block {
	return render.Render(m.Content)
}

// WritePlainMessages prints a transcript without styling. Answers go through
// the block renderer so lists come out numbered and emphasis markers vanish.
func WritePlainMessages(w io.Writer, msgs []api.Message) error {
	for i, m := range msgs {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		head := fmt.Sprintf("[%s] %s", m.CreatedAt.Local().Format("2006-01-02 15:04"), speaker(m.Role))
		if m.Error {
			head += " (error)"
		}
		body := render.PlainText(MessageBlocks(m))
		if _, err := fmt.Fprintf(w, "%s\n%s\n", head, body); err != nil {
			return err
		}
		if len(m.Sources) > 0 {
			if _, err := fmt.Fprintf(w, "sources: %s\n", strings.Join(m.Sources, ", ")); err != nil {
				return err
			}
		}
	}
	return nil
}

// PrettyMarkdown builds the markdown document fed to glamour. Message text
// is re-emitted by the block renderer with everything else escaped.
func PrettyMarkdown(title string, msgs []api.Message) string {
	var b strings.Builder
	if title != "" {
		b.WriteString("# " + cell(title) + "\n\n")
	}
	for _, m := range msgs {
		label := "You"
		if m.Role == api.RoleAssistant {
			label = "Assistant"
		}
		fmt.Fprintf(&b, "### %s · %s\n\n", label, m.CreatedAt.Local().Format("15:04"))
		body := render.Markdown(MessageBlocks(m))
		if m.Error {
			body = "> " + strings.ReplaceAll(body, "\n", "\n> ")
		}
		b.WriteString(body + "\n\n")
		if len(m.Sources) > 0 {
			src := make([]string, len(m.Sources))
			for i, s := range m.Sources {
				src[i] = cell(s)
			}
			b.WriteString("*Sources: " + strings.Join(src, ", ") + "*\n\n")
		}
	}
	return b.String()
}

// WritePrettyMessages renders a transcript with glamour.
func WritePrettyMessages(w io.Writer, title string, msgs []api.Message, o PrettyOptions) error {
	return renderPretty(w, PrettyMarkdown(title, msgs), o)
}

// JSONMessage is a stored message with its rendered blocks.
type JSONMessage struct {
	api.Message
	Blocks []JSONBlock `json:"blocks"`
}

func JSONMessages(msgs []api.Message) []JSONMessage {
	out := make([]JSONMessage, len(msgs))
	for i, m := range msgs {
		out[i] = JSONMessage{Message: m, Blocks: JSONBlocks(MessageBlocks(m))}
	}
	return out
}
