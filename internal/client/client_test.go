package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/docqa/pkg/api"
)

func newTestServer(t *testing.T, mux *http.ServeMux) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requireBearer(t *testing.T, r *http.Request, token string) {
	t.Helper()
	assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
}

func TestLoginAndMe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Username != "jane" || req.Password != "secret1" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Incorrect username or password"})
			return
		}
		writeJSON(w, http.StatusOK, api.Token{AccessToken: "tok", TokenType: "bearer", User: api.User{ID: 1, Username: "jane"}})
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r, "tok")
		writeJSON(w, http.StatusOK, api.User{ID: 1, Username: "jane", Email: "jane@example.com"})
	})
	srv := newTestServer(t, mux)
	ctx := context.Background()

	c := New(srv.URL + "/")
	_, err := c.Login(ctx, "jane", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Incorrect username or password")

	tok, err := c.Login(ctx, "jane", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok", tok.AccessToken)

	_, err = c.Me(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	c.SetToken(tok.AccessToken)
	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", me.Email)
}

func TestDocuments(t *testing.T) {
	pages := 3
	mux := http.NewServeMux()
	mux.HandleFunc("/api/documents/", func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r, "tok")
		switch {
		case r.URL.Path == "/api/documents/" && r.Method == http.MethodGet:
			assert.Equal(t, "5", r.URL.Query().Get("skip"))
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			writeJSON(w, http.StatusOK, api.DocumentList{Total: 1, Documents: []api.Document{{ID: 7, OriginalFilename: "a.pdf", PageCount: &pages}}})
		case r.URL.Path == "/api/documents/7" && r.Method == http.MethodGet:
			writeJSON(w, http.StatusOK, api.Document{ID: 7, OriginalFilename: "a.pdf"})
		case r.URL.Path == "/api/documents/7" && r.Method == http.MethodDelete:
			writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted successfully"})
		default:
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Document not found"})
		}
	})
	srv := newTestServer(t, mux)
	ctx := context.Background()
	c := New(srv.URL, WithToken("tok"))

	list, err := c.ListDocuments(ctx, 5, 10)
	require.NoError(t, err)
	require.Len(t, list.Documents, 1)
	assert.Equal(t, 3, *list.Documents[0].PageCount)

	doc, err := c.GetDocument(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", doc.DisplayName())

	msg, err := c.DeleteDocument(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Document deleted successfully", msg)

	_, err = c.GetDocument(ctx, 8)
	assert.True(t, IsNotFound(err))
}

func TestUploadDocument(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "Report.PDF")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4 body"), 0o600))

	mux := http.NewServeMux()
	mux.HandleFunc("/api/documents/upload", func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r, "tok")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "Report.PDF", hdr.Filename)
		assert.Equal(t, "application/pdf", hdr.Header.Get("Content-Type"))
		assert.Equal(t, "%PDF-1.4 body", string(b))
		writeJSON(w, http.StatusCreated, api.UploadResult{Message: "ok", Document: api.Document{ID: 9, OriginalFilename: hdr.Filename}})
	})
	srv := newTestServer(t, mux)
	c := New(srv.URL, WithToken("tok"))

	res, err := c.UploadDocument(context.Background(), pdf)
	require.NoError(t, err)
	assert.Equal(t, int64(9), res.Document.ID)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o600))
	_, err = c.UploadDocument(context.Background(), txt)
	assert.ErrorIs(t, err, ErrNotPDF)

	small := New(srv.URL, WithToken("tok"), WithMaxUpload(4))
	_, err = small.UploadDocument(context.Background(), pdf)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestAskAndChatInfo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat/", func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r, "tok")
		var req api.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(4), req.DocumentID)
		writeJSON(w, http.StatusOK, api.ChatResponse{Question: req.Question, Answer: "- one\n- two", DocumentID: req.DocumentID, Sources: []string{"Page 1"}})
	})
	mux.HandleFunc("/api/chat/document/4", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.ChatInfo{DocumentID: 4, Filename: "a.pdf", IsProcessed: true, ReadyForChat: true})
	})
	srv := newTestServer(t, mux)
	c := New(srv.URL, WithToken("tok"))

	resp, err := c.Ask(context.Background(), 4, "what?")
	require.NoError(t, err)
	assert.Equal(t, "what?", resp.Question)
	assert.Equal(t, []string{"Page 1"}, resp.Sources)

	info, err := c.ChatInfo(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, info.ReadyForChat)
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"Document not found"}`, "Document not found"},
		{"validation list", `{"detail":[{"loc":["body","question"],"msg":"String should have at least 1 character","type":"string_too_short"}]}`, "question: String should have at least 1 character"},
		{"plain body", "Internal Server Error\ntrace", "Internal Server Error"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := parseError(http.StatusBadRequest, []byte(tt.body))
			assert.Equal(t, tt.want, e.Detail)
			var target *APIError
			assert.True(t, errors.As(error(e), &target))
		})
	}
	long := parseError(http.StatusBadGateway, []byte(strings.Repeat("é", 250)))
	assert.True(t, utf8.ValidString(long.Detail))
	assert.Equal(t, maxDetailRunes, utf8.RuneCountInString(long.Detail))

	assert.Equal(t, "server returned 502 Bad Gateway", (&APIError{Status: 502}).Error())
}
