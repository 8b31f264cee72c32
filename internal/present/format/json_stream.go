package format

import (
	"encoding/json"
	"io"
)

// JSONStreamWriter incrementally writes items as a JSON array.
type JSONStreamWriter[T any] struct {
	w        io.Writer
	indent   bool
	wroteAny bool
}

func NewJSONStreamWriter[T any](w io.Writer, indent bool) *JSONStreamWriter[T] {
	return &JSONStreamWriter[T]{w: w, indent: indent}
}

// Write appends a batch of items to the array.
func (jw *JSONStreamWriter[T]) Write(items []T) error {
	for _, it := range items {
		var (
			b   []byte
			err error
		)
		if jw.indent {
			b, err = json.MarshalIndent(it, "  ", "  ")
		} else {
			b, err = json.Marshal(it)
		}
		if err != nil {
			return err
		}
		sep := ","
		switch {
		case !jw.wroteAny && jw.indent:
			sep = "[\n  "
		case !jw.wroteAny:
			sep = "["
		case jw.indent:
			sep = ",\n  "
		}
		if _, err := io.WriteString(jw.w, sep); err != nil {
			return err
		}
		if _, err := jw.w.Write(b); err != nil {
			return err
		}
		jw.wroteAny = true
	}
	return nil
}

// Close finishes the JSON array.
func (jw *JSONStreamWriter[T]) Close() error {
	end := "]\n"
	switch {
	case !jw.wroteAny:
		end = "[]\n"
	case jw.indent:
		end = "\n]\n"
	}
	_, err := io.WriteString(jw.w, end)
	return err
}
