package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/docqa/pkg/api"
)

func TestParseQuestion(t *testing.T) {
	input := `# Question about a.pdf (document 1)
# Lines starting with '#' are ignored.

What does section 2 say
about penalties?
  # indented comment
`
	if got := ParseQuestion(input); got != "What does section 2 say\nabout penalties?" {
		t.Fatalf("question=%q", got)
	}
	if got := ParseQuestion("# only comments\n\n"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("  hello\nworld\n"); got != "hello" {
		t.Fatalf("FirstLine=%q", got)
	}
	long := strings.Repeat("é", 130)
	if fl := FirstLine(long); len([]rune(fl)) != 120 {
		t.Fatalf("FirstLine length=%d want 120", len([]rune(fl)))
	}
}

func TestComposeQuestion(t *testing.T) {
	doc := api.Document{ID: 7, OriginalFilename: "contract.pdf"}
	recent := []api.Message{
		{Role: api.RoleUser, Content: "who signs?"},
		{Role: api.RoleAssistant, Content: "Both parties.\n- A\n- B"},
	}
	content := ComposeQuestion(doc, "draft", recent)
	if !strings.Contains(content, "# Question about contract.pdf (document 7)") {
		t.Fatalf("expected header, got %q", content)
	}
	if !strings.Contains(content, "#   assistant: Both parties.") {
		t.Fatalf("expected recent answer, got %q", content)
	}
	if ParseQuestion(content) != "draft" {
		t.Fatalf("round trip lost the draft: %q", ParseQuestion(content))
	}
}

func TestPathForDocument(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	p, err := PathForDocument(12)
	if err != nil {
		t.Fatalf("PathForDocument error: %v", err)
	}
	want := filepath.Join(dir, "docqa", "question-12.md")
	if p != want {
		t.Fatalf("path=%q want %q", p, want)
	}
}

func fakeEditor(t *testing.T, script string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-editor")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", path)
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
}

func TestEditQuestion(t *testing.T) {
	fakeEditor(t, `printf 'Is there a deadline?\n' >> "$1"`)
	q, err := EditQuestion(api.Document{ID: 3, OriginalFilename: "a.pdf"}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Is there a deadline?", q)

	p, _ := PathForDocument(3)
	_, err = os.Stat(p)
	assert.True(t, os.IsNotExist(err))
}

func TestEditQuestionEmpty(t *testing.T) {
	fakeEditor(t, `true`)
	_, err := EditQuestion(api.Document{ID: 4}, "", nil)
	assert.ErrorIs(t, err, ErrEmpty)
}
