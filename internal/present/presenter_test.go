package present

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/docqa/pkg/api"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"plain", "pretty", "json", "ndjson", "tui"} {
		m, ok := ParseMode(s)
		require.True(t, ok, s)
		assert.Equal(t, s, m.String())
	}
	m, ok := ParseMode(" JSON ")
	assert.True(t, ok)
	assert.Equal(t, ModeJSON, m)
	_, ok = ParseMode("yaml")
	assert.False(t, ok)
}

func TestRenderDocuments(t *testing.T) {
	docs := []api.Document{{ID: 3, OriginalFilename: "a.pdf"}}

	var buf bytes.Buffer
	require.NoError(t, RenderDocuments(context.Background(), &buf, docs, Options{Mode: ModeJSON}))
	var got []api.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, int64(3), got[0].ID)

	buf.Reset()
	require.NoError(t, RenderDocuments(context.Background(), &buf, docs, Options{Mode: ModePlain}))
	assert.Contains(t, buf.String(), "a.pdf")
}

func TestDocumentStreamPretty(t *testing.T) {
	var buf bytes.Buffer
	s := NewDocumentStream(&buf, Options{Mode: ModePretty})
	require.NoError(t, s.Write([]api.Document{{ID: 1, OriginalFilename: "first.pdf"}}))
	assert.Zero(t, buf.Len())
	require.NoError(t, s.Write([]api.Document{{ID: 2, OriginalFilename: "second.pdf"}}))
	require.NoError(t, s.Close())
	assert.Contains(t, buf.String(), "first.pdf")
	assert.Contains(t, buf.String(), "second.pdf")
}

func TestRenderDocumentJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDocument(&buf, api.Document{ID: 9}, &api.ChatInfo{ReadyForChat: true}, Options{Mode: ModeJSON}))
	assert.Contains(t, buf.String(), `"ready_for_chat":true`)
	assert.Contains(t, buf.String(), `"id":9`)
}

func TestRenderMessagesModes(t *testing.T) {
	msgs := []api.Message{{Role: api.RoleAssistant, Content: "- **a**\n- b"}}

	var buf bytes.Buffer
	require.NoError(t, RenderMessages(&buf, "", msgs, Options{Mode: ModeNDJSON}))
	line := strings.TrimSpace(buf.String())
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	blocks := rec["blocks"].([]any)
	require.Len(t, blocks, 1)
	assert.Equal(t, "list", blocks[0].(map[string]any)["type"])

	buf.Reset()
	require.NoError(t, RenderMessages(&buf, "", msgs, Options{Mode: ModePlain}))
	assert.Contains(t, buf.String(), "- a\n- b")

	assert.Error(t, RenderMessages(&buf, "", msgs, Options{Mode: ModeTUI}))
}
