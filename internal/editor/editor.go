package editor

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mithrel/docqa/pkg/api"
)

// ErrEmpty is returned when the editor is closed without a question.
var ErrEmpty = errors.New("no question written; nothing sent")

// ComposeQuestion creates the text presented to the editor: a commented
// header with the document and the last few exchanges, then the draft.
func ComposeQuestion(doc api.Document, draft string, recent []api.Message) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# Question about %s (document %d)\n", doc.DisplayName(), doc.ID)
	b.WriteString("# Lines starting with '#' are ignored. Save and quit to send; leave empty to cancel.\n")
	if len(recent) > 0 {
		b.WriteString("#\n# Recent conversation:\n")
		for _, m := range recent {
			who := "you"
			if m.Role == api.RoleAssistant {
				who = "assistant"
			}
			fmt.Fprintf(&b, "#   %s: %s\n", who, FirstLine(m.Content))
		}
	}
	b.WriteString("\n")
	if draft != "" {
		if !strings.HasSuffix(draft, "\n") {
			draft += "\n"
		}
		b.WriteString(draft)
	}
	return b.String()
}

// ParseQuestion drops comment lines and returns the trimmed question.
func ParseQuestion(s string) string {
	var kept []string
	for line := range strings.SplitSeq(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		kept = append(kept, strings.TrimRight(line, "\r"))
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// PreferredEditor finds a suitable editor from env or common defaults.
func PreferredEditor() (string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return v, nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// PathForDocument returns the scratch file used to compose a question.
func PathForDocument(id int64) (string, error) {
	name := fmt.Sprintf("question-%d.md", id)
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "docqa", name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "docqa", "edit", name), nil
}

func writeFile0600(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, fs.FileMode(0o600))
}

// OpenAt opens the editor at path with initial content and returns final bytes and whether it changed.
func OpenAt(path string, initial []byte) (final []byte, changed bool, err error) {
	if err := writeFile0600(path, initial); err != nil {
		return nil, false, err
	}
	// Honor VISUAL/EDITOR including flags by running via a shell wrapper.
	ed := os.Getenv("VISUAL")
	if ed == "" {
		ed = os.Getenv("EDITOR")
	}
	var cmd *exec.Cmd
	if strings.TrimSpace(ed) != "" {
		cmd = exec.Command("sh", "-c", "$EDITORCMD \"$FILEPATH\"")
		cmd.Env = append(os.Environ(), "EDITORCMD="+ed, "FILEPATH="+path)
	} else {
		prog, err := PreferredEditor()
		if err != nil {
			return nil, false, err
		}
		cmd = exec.Command(prog, path)
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, false, err
	}
	out, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(out, initial), nil
}

// EditQuestion lets the user write a question in their editor. The scratch
// file is removed afterwards.
func EditQuestion(doc api.Document, draft string, recent []api.Message) (string, error) {
	path, err := PathForDocument(doc.ID)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)
	out, _, err := OpenAt(path, []byte(ComposeQuestion(doc, draft, recent)))
	if err != nil {
		return "", fmt.Errorf("editor: %w", err)
	}
	q := ParseQuestion(string(out))
	if q == "" {
		return "", ErrEmpty
	}
	return q, nil
}

// FirstLine returns the first trimmed line, squashed and truncated.
func FirstLine(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 120 {
		s = string(r[:120])
	}
	return s
}
