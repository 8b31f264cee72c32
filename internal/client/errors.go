package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrNotPDF      = errors.New("only PDF files are allowed")
	ErrTooLarge    = errors.New("file exceeds upload limit")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Detail, e.Status)
}

// IsUnauthorized reports whether err is a 401 from the backend or a missing token.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrNotLoggedIn) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// parseError extracts "detail" from a FastAPI-style error body. Detail is
// either a string or a list of validation objects carrying "msg".
func parseError(status int, body []byte) *APIError {
	out := &APIError{Status: status}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		out.Detail = firstLine(string(body))
		return out
	}
	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		out.Detail = s
		return out
	}
	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg == "" {
				continue
			}
			if field := locField(it.Loc); field != "" {
				msgs = append(msgs, field+": "+it.Msg)
			} else {
				msgs = append(msgs, it.Msg)
			}
		}
		out.Detail = strings.Join(msgs, "; ")
		return out
	}
	out.Detail = string(payload.Detail)
	return out
}

func locField(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok && s != "body" {
		return s
	}
	return ""
}

// maxDetailRunes bounds the detail taken from a non-JSON error body.
const maxDetailRunes = 200

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if r := []rune(s); len(r) > maxDetailRunes {
		s = string(r[:maxDetailRunes])
	}
	return s
}
