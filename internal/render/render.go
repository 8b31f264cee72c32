// Package render turns assistant replies into display blocks.
//
// The format is a deliberately small subset of markdown: lines starting with
// a bullet ("-", "*", "•") or a number ("1.") become list items, every other
// non-blank line is a paragraph, and inside a line **bold**, __bold__ and
// `code` spans are recognised. Nothing else is interpreted.
package render

import (
	"iter"
	"regexp"
	"strings"
)

var (
	bulletItem   = regexp.MustCompile(`^\s*[-*•]\s+(\S.*)$`)
	numberedItem = regexp.MustCompile(`^\s*\d+\.\s+(\S.*)$`)
)

type state int

const (
	outside state = iota
	inList
)

// machine is the line consumer. In the inList state items holds the pending
// list, which is emitted when a non-item line arrives or input ends.
type machine struct {
	state   state
	items   []Text
	ordered bool
}

// Blocks lazily yields the blocks of raw in input order.
// Empty input yields nothing.
func Blocks(raw string) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		if raw == "" {
			return
		}
		var m machine
		for line := range strings.SplitSeq(raw, "\n") {
			if !m.feed(strings.TrimSuffix(line, "\r"), yield) {
				return
			}
		}
		m.flush(yield)
	}
}

// Render collects Blocks(raw) into a slice.
func Render(raw string) []Block {
	var out []Block
	for b := range Blocks(raw) {
		out = append(out, b)
	}
	return out
}

// RenderPtr is Render for an optional reply; nil renders to nothing.
func RenderPtr(raw *string) []Block {
	if raw == nil {
		return nil
	}
	return Render(*raw)
}

// feed consumes one line. It returns false once yield asks to stop.
func (m *machine) feed(line string, yield func(Block) bool) bool {
	if content, ordered, ok := matchItem(line); ok {
		if m.state == outside {
			m.state = inList
			m.ordered = ordered
		}
		m.items = append(m.items, Format(content))
		return true
	}
	if !m.flush(yield) {
		return false
	}
	if strings.TrimSpace(line) == "" {
		return true
	}
	return yield(Paragraph{Content: Format(line)})
}

func (m *machine) flush(yield func(Block) bool) bool {
	if m.state != inList {
		return true
	}
	items, ordered := m.items, m.ordered
	*m = machine{}
	if len(items) == 0 {
		return true
	}
	return yield(List{Items: items, Ordered: ordered})
}

func matchItem(line string) (content string, ordered bool, ok bool) {
	if sub := bulletItem.FindStringSubmatch(line); sub != nil {
		return sub[1], false, true
	}
	if sub := numberedItem.FindStringSubmatch(line); sub != nil {
		return sub[1], true, true
	}
	return "", false, false
}
