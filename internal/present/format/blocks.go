package format

import (
	"io"

	"github.com/mithrel/docqa/internal/render"
)

// JSONSpan is the wire form of a styled run of text.
type JSONSpan struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
	Code bool   `json:"code,omitempty"`
}

// JSONBlock is the wire form of a rendered block. Paragraphs carry Spans,
// lists carry Items.
type JSONBlock struct {
	Type    string       `json:"type"`
	Ordered bool         `json:"ordered,omitempty"`
	Spans   []JSONSpan   `json:"spans,omitempty"`
	Items   [][]JSONSpan `json:"items,omitempty"`
}

func jsonSpans(t render.Text) []JSONSpan {
	out := make([]JSONSpan, len(t))
	for i, s := range t {
		out[i] = JSONSpan{Text: s.Text, Bold: s.Style&render.Bold != 0, Code: s.Style&render.Code != 0}
	}
	return out
}

// JSONBlocks converts rendered blocks to their wire form.
func JSONBlocks(blocks []render.Block) []JSONBlock {
	out := make([]JSONBlock, 0, len(blocks))
	for _, b := range blocks {
		switch x := b.(type) {
		case render.Paragraph:
			out = append(out, JSONBlock{Type: "paragraph", Spans: jsonSpans(x.Content)})
		case render.List:
			items := make([][]JSONSpan, len(x.Items))
			for i, it := range x.Items {
				items[i] = jsonSpans(it)
			}
			out = append(out, JSONBlock{Type: "list", Ordered: x.Ordered, Items: items})
		}
	}
	return out
}

func WriteJSONBlocks(w io.Writer, blocks []render.Block, indent bool) error {
	return WriteJSON(w, JSONBlocks(blocks), indent)
}
