package render

import (
	"regexp"
	"strings"
)

// inlineRules run in this order; each sees the output of the previous one.
var inlineRules = []struct {
	re    *regexp.Regexp
	style Style
}{
	{regexp.MustCompile(`\*\*(.+?)\*\*`), Bold},
	{regexp.MustCompile(`__(.+?)__`), Bold},
	{regexp.MustCompile("`([^`]+)`"), Code},
}

// styled tracks the style of every byte of text. Match indices from regexp
// always fall on rune boundaries, so runs never split a rune.
type styled struct {
	text   string
	styles []Style
}

// Format applies bold and inline-code substitution to one line.
// Delimiters are dropped and the enclosed characters gain the style.
// Unmatched delimiters stay literal.
func Format(line string) Text {
	if line == "" {
		return nil
	}
	s := styled{text: line, styles: make([]Style, len(line))}
	for _, r := range inlineRules {
		s = s.apply(r.re, r.style)
	}
	return s.spans()
}

func (s styled) apply(re *regexp.Regexp, style Style) styled {
	matches := re.FindAllStringSubmatchIndex(s.text, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s.text))
	styles := make([]Style, 0, len(s.styles))
	last := 0
	for _, m := range matches {
		start, end, innerStart, innerEnd := m[0], m[1], m[2], m[3]
		b.WriteString(s.text[last:start])
		styles = append(styles, s.styles[last:start]...)
		b.WriteString(s.text[innerStart:innerEnd])
		for i := innerStart; i < innerEnd; i++ {
			styles = append(styles, s.styles[i]|style)
		}
		last = end
	}
	b.WriteString(s.text[last:])
	styles = append(styles, s.styles[last:]...)
	return styled{text: b.String(), styles: styles}
}

func (s styled) spans() Text {
	if s.text == "" {
		return nil
	}
	var out Text
	start := 0
	for i := 1; i <= len(s.text); i++ {
		if i == len(s.text) || s.styles[i] != s.styles[start] {
			out = append(out, Span{Text: s.text[start:i], Style: s.styles[start]})
			start = i
		}
	}
	return out
}
