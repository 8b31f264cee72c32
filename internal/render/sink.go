package render

import (
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// blockPolicy allows exactly the elements the HTML sink produces.
var blockPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "ul", "ol", "li", "strong", "code")
	return p
}()

// HTML returns the text as escaped markup. Only <strong> and <code> are
// emitted; span text is always escaped first.
func (t Text) HTML() string {
	var b strings.Builder
	for _, s := range t {
		txt := html.EscapeString(s.Text)
		if s.Style&Bold != 0 {
			b.WriteString("<strong>")
		}
		if s.Style&Code != 0 {
			b.WriteString("<code>")
			b.WriteString(txt)
			b.WriteString("</code>")
		} else {
			b.WriteString(txt)
		}
		if s.Style&Bold != 0 {
			b.WriteString("</strong>")
		}
	}
	return b.String()
}

// TerminalSafe drops C0 and C1 control characters other than tab, so span
// text cannot carry escape sequences to a terminal.
func TerminalSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if (r < 0x20 && r != '\t') || (r >= 0x7f && r <= 0x9f) {
			return -1
		}
		return r
	}, s)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`#`, `\#`,
	`|`, `\|`,
)

// Markdown returns the text as markdown with its punctuation escaped, so a
// markdown renderer shows exactly the spans recognised here.
func (t Text) Markdown() string {
	var b strings.Builder
	for _, s := range t {
		txt := TerminalSafe(s.Text)
		if s.Style&Code != 0 {
			// code spans never contain a backtick
			txt = "`" + txt + "`"
		} else {
			txt = markdownEscaper.Replace(txt)
		}
		if s.Style&Bold != 0 {
			b.WriteString("**" + txt + "**")
		} else {
			b.WriteString(txt)
		}
	}
	return b.String()
}

// HTML renders blocks to sanitized markup.
func HTML(blocks []Block) string {
	var b strings.Builder
	for _, blk := range blocks {
		switch x := blk.(type) {
		case Paragraph:
			b.WriteString("<p>" + x.Content.HTML() + "</p>\n")
		case List:
			tag := "ul"
			if x.Ordered {
				tag = "ol"
			}
			b.WriteString("<" + tag + ">\n")
			for _, it := range x.Items {
				b.WriteString("<li>" + it.HTML() + "</li>\n")
			}
			b.WriteString("</" + tag + ">\n")
		}
	}
	return blockPolicy.Sanitize(b.String())
}

// Markdown renders blocks to markdown, one blank line between blocks.
func Markdown(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for _, blk := range blocks {
		switch x := blk.(type) {
		case Paragraph:
			parts = append(parts, escapeLineStart(x.Content.Markdown()))
		case List:
			lines := make([]string, 0, len(x.Items))
			for i, it := range x.Items {
				lines = append(lines, itemPrefix(x.Ordered, i)+it.Markdown())
			}
			parts = append(parts, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(parts, "\n\n")
}

// escapeLineStart keeps a paragraph from being read as a heading underline,
// thematic break, list item or indented code block.
func escapeLineStart(line string) string {
	line = strings.TrimLeft(line, " \t")
	if line == "" {
		return line
	}
	switch line[0] {
	case '-', '+', '=':
		return `\` + line
	}
	if i := strings.IndexFunc(line, func(r rune) bool { return r < '0' || r > '9' }); i > 0 && (line[i] == '.' || line[i] == ')') {
		return line[:i] + `\` + line[i:]
	}
	return line
}

// PlainText renders blocks without emphasis, one line per paragraph or item,
// with control characters removed.
func PlainText(blocks []Block) string {
	var lines []string
	for _, blk := range blocks {
		switch x := blk.(type) {
		case Paragraph:
			lines = append(lines, TerminalSafe(x.Content.Plain()))
		case List:
			for i, it := range x.Items {
				lines = append(lines, itemPrefix(x.Ordered, i)+TerminalSafe(it.Plain()))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func itemPrefix(ordered bool, i int) string {
	if ordered {
		return strconv.Itoa(i+1) + ". "
	}
	return "- "
}
