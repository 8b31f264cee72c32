package format

import (
	"io"
	"text/tabwriter"

	"github.com/mithrel/docqa/pkg/api"
)

// PlainStreamWriter incrementally writes documents in the plain table format.
// Column widths are settled per batch.
type PlainStreamWriter struct {
	tw          *tabwriter.Writer
	headers     bool
	wroteHeader bool
}

func NewPlainStreamWriter(w io.Writer, headers bool) *PlainStreamWriter {
	return &PlainStreamWriter{
		tw:      tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
		headers: headers,
	}
}

// Write writes a batch of documents and flushes.
func (pw *PlainStreamWriter) Write(docs []api.Document) error {
	if pw.headers && !pw.wroteHeader {
		_, _ = io.WriteString(pw.tw, headerLine)
		pw.wroteHeader = true
	}
	for _, d := range docs {
		_, _ = io.WriteString(pw.tw, documentLine(d))
	}
	return pw.tw.Flush()
}

// Close flushes remaining buffered output.
func (pw *PlainStreamWriter) Close() error {
	return pw.tw.Flush()
}

// StreamWriter is implemented by the plain, JSON and NDJSON stream writers.
type StreamWriter[T any] interface {
	Write(items []T) error
	Close() error
}
