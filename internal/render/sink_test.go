package render

import (
	"strings"
	"testing"
)

func TestTextHTML(t *testing.T) {
	got := Format("**bold** and `code`").HTML()
	want := "<strong>bold</strong> and <code>code</code>"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestTextHTMLEscapesBeforeMarkup(t *testing.T) {
	got := Format("<script>alert(1)</script> & **<b>x</b>**").HTML()
	want := "&lt;script&gt;alert(1)&lt;/script&gt; &amp; <strong>&lt;b&gt;x&lt;/b&gt;</strong>"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestBlocksHTML(t *testing.T) {
	out := HTML(Render("**bold** and `code`\n- a\n- <img src=x onerror=alert(1)>\n1. one"))
	for _, want := range []string{
		"<p><strong>bold</strong> and <code>code</code></p>",
		"<ul>",
		"<li>a</li>",
		"<ol>",
		"<li>one</li>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	if strings.Contains(out, "<img") {
		t.Fatalf("raw tag survived: %q", out)
	}
}

func TestMarkdown(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a*b_c [x]", `a\*b\_c \[x\]`},
		{"**bold** `co_de`", "**bold** `co_de`"},
		{"1. x\n2. y", "1. x\n2. y"},
		{"- a\n* b", "- a\n- b"},
		{"3.14 is pi", `3\.14 is pi`},
		{"p1\np2", "p1\n\np2"},
		{"  ===", `\===`},
	}
	for _, tt := range tests {
		if got := Markdown(Render(tt.in)); got != tt.want {
			t.Fatalf("Markdown(%q): got %q want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText(Render("intro **x**\n1. a\n- b\n\n- c"))
	want := "intro x\n1. a\n2. b\n- c"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestTerminalSinksDropControlCharacters(t *testing.T) {
	blocks := Render("\x1b[2Jhi **\x1b]0;owned\x07bold**\tx\u009b31m\n- item\x1b[0m")

	plain := PlainText(blocks)
	want := "[2Jhi ]0;ownedbold\tx31m\n- item[0m"
	if plain != want {
		t.Fatalf("PlainText: got %q want %q", plain, want)
	}
	md := Markdown(blocks)
	if strings.ContainsAny(md, "\x1b\x07\u009b") {
		t.Fatalf("Markdown kept control characters: %q", md)
	}
	if got := TerminalSafe("a\tb\x00c\x7fd"); got != "a\tbcd" {
		t.Fatalf("TerminalSafe: got %q", got)
	}
}
