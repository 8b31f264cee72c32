package render

// Block is a renderable unit of an assistant reply: a Paragraph or a List.
type Block interface {
	isBlock()
}

// Paragraph is a single non-list line.
type Paragraph struct {
	Content Text
}

// List is a run of consecutive bullet or numbered lines.
// Ordered follows the marker of the first item.
type List struct {
	Items   []Text
	Ordered bool
}

func (Paragraph) isBlock() {}
func (List) isBlock()      {}

// Style is a bit set of inline emphasis applied to a span.
type Style uint8

const (
	Bold Style = 1 << iota
	Code
)

// Span is a run of plain characters sharing one style.
type Span struct {
	Text  string
	Style Style
}

// Text is formatted text: ordered styled runs. Span text is never markup;
// sinks escape it for their target format.
type Text []Span

// Plain returns the underlying characters without any emphasis.
func (t Text) Plain() string {
	switch len(t) {
	case 0:
		return ""
	case 1:
		return t[0].Text
	}
	n := 0
	for _, s := range t {
		n += len(s.Text)
	}
	b := make([]byte, 0, n)
	for _, s := range t {
		b = append(b, s.Text...)
	}
	return string(b)
}
