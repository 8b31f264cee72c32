package render

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plain(s string) Text { return Text{{Text: s}} }

func TestRenderEmpty(t *testing.T) {
	assert.Empty(t, Render(""))
	assert.Empty(t, RenderPtr(nil))
	empty := ""
	assert.Empty(t, RenderPtr(&empty))
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Block
	}{
		{
			name: "plain line",
			in:   "plain line",
			want: []Block{Paragraph{Content: plain("plain line")}},
		},
		{
			name: "bullets",
			in:   "- a\n- b",
			want: []Block{List{Items: []Text{plain("a"), plain("b")}}},
		},
		{
			name: "numbered",
			in:   "1. first\n2. second",
			want: []Block{List{Items: []Text{plain("first"), plain("second")}, Ordered: true}},
		},
		{
			name: "blank line then paragraph closes list",
			in:   "- a\n\ntext",
			want: []Block{
				List{Items: []Text{plain("a")}},
				Paragraph{Content: plain("text")},
			},
		},
		{
			name: "blank line between items splits the list",
			in:   "- a\n\n- b",
			want: []Block{
				List{Items: []Text{plain("a")}},
				List{Items: []Text{plain("b")}},
			},
		},
		{
			name: "paragraph list paragraph",
			in:   "intro\n- x\n- y\noutro",
			want: []Block{
				Paragraph{Content: plain("intro")},
				List{Items: []Text{plain("x"), plain("y")}},
				Paragraph{Content: plain("outro")},
			},
		},
		{
			name: "other bullet markers and indentation",
			in:   "  * star\n\t• dot\n   3. three",
			want: []Block{List{Items: []Text{plain("star"), plain("dot"), plain("three")}}},
		},
		{
			name: "marker without content is a paragraph",
			in:   "-   ",
			want: []Block{Paragraph{Content: plain("-   ")}},
		},
		{
			name: "number without space is a paragraph",
			in:   "3.14 is pi",
			want: []Block{Paragraph{Content: plain("3.14 is pi")}},
		},
		{
			name: "whitespace lines skipped",
			in:   "one\n   \n\t\ntwo",
			want: []Block{Paragraph{Content: plain("one")}, Paragraph{Content: plain("two")}},
		},
		{
			name: "crlf",
			in:   "a\r\nb\r\n",
			want: []Block{Paragraph{Content: plain("a")}, Paragraph{Content: plain("b")}},
		},
		{
			name: "emphasis in items",
			in:   "- **a** and `b`",
			want: []Block{List{Items: []Text{{
				{Text: "a", Style: Bold},
				{Text: " and "},
				{Text: "b", Style: Code},
			}}}},
		},
		{
			name: "mixed markers form one list",
			in:   "- x\n1. y",
			want: []Block{List{Items: []Text{plain("x"), plain("y")}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.in))
		})
	}
}

func TestBlocksStopsEarly(t *testing.T) {
	n := 0
	for range Blocks("a\n- b\nc\nd") {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Text
	}{
		{"**bold** and `code`", Text{{Text: "bold", Style: Bold}, {Text: " and "}, {Text: "code", Style: Code}}},
		{"__under__ x", Text{{Text: "under", Style: Bold}, {Text: " x"}}},
		{"**a** b **c**", Text{{Text: "a", Style: Bold}, {Text: " b "}, {Text: "c", Style: Bold}}},
		{"`**x**`", Text{{Text: "x", Style: Bold | Code}}},
		{"**oops", plain("**oops")},
		{"****", plain("****")},
		{"a ` b", plain("a ` b")},
		{"**é** ü", Text{{Text: "é", Style: Bold}, {Text: " ü"}}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

var markers = regexp.MustCompile("^\\s*([-*•]|\\d+\\.)\\s+|\\*\\*|__|`")

func TestPlainCharactersPreserved(t *testing.T) {
	in := "Summary **of** things\n\n- first `point`\n- second __point__\n\n1. one\n2. two\nclosing line"
	var want []string
	for _, line := range strings.Split(in, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		want = append(want, markers.ReplaceAllString(line, ""))
	}

	var got []string
	for b := range Blocks(in) {
		switch x := b.(type) {
		case Paragraph:
			got = append(got, x.Content.Plain())
		case List:
			for _, it := range x.Items {
				got = append(got, it.Plain())
			}
		}
	}
	require.Equal(t, want, got)
}
