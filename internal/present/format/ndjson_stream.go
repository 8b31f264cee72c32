package format

import (
	"encoding/json"
	"io"
)

// NDJSONStreamWriter incrementally writes items as NDJSON.
type NDJSONStreamWriter[T any] struct {
	enc *json.Encoder
}

func NewNDJSONStreamWriter[T any](w io.Writer) *NDJSONStreamWriter[T] {
	return &NDJSONStreamWriter[T]{enc: json.NewEncoder(w)}
}

func (nw *NDJSONStreamWriter[T]) Write(items []T) error {
	for _, it := range items {
		if err := nw.enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op for NDJSON output.
func (nw *NDJSONStreamWriter[T]) Close() error { return nil }
