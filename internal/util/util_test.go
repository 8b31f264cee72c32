package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/docqa/pkg/api"
)

func TestScoreCompletions(t *testing.T) {
	cands := []string{"alpha.pdf", "beta.pdf", "alphabet.pdf"}
	assert.Equal(t, cands, ScoreCompletions("", cands, 1))
	assert.Nil(t, ScoreCompletions("zzz", cands, 0))

	got := ScoreCompletions("alp", cands, 0)
	assert.ElementsMatch(t, []string{"alpha.pdf", "alphabet.pdf"}, got)
	assert.Len(t, ScoreCompletions("alp", cands, 1), 1)
}

func TestResolveDocument(t *testing.T) {
	docs := []api.Document{
		{ID: 1, OriginalFilename: "Annual Report.pdf"},
		{ID: 2, OriginalFilename: "x1.pdf"},
		{ID: 3, OriginalFilename: "x2.pdf"},
		{ID: 4, Filename: "stored_only.pdf"},
		{ID: 5, OriginalFilename: "dup.pdf"},
		{ID: 6, OriginalFilename: "DUP.pdf"},
	}

	d, err := ResolveDocument("3", docs)
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.ID)

	d, err = ResolveDocument("annual report.PDF", docs)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.ID)

	d, err = ResolveDocument("annual", docs)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.ID)

	d, err = ResolveDocument("stored", docs)
	require.NoError(t, err)
	assert.Equal(t, int64(4), d.ID)

	_, err = ResolveDocument("x", docs)
	assert.ErrorIs(t, err, ErrAmbiguousDocument)

	_, err = ResolveDocument("dup.pdf", docs)
	assert.ErrorIs(t, err, ErrAmbiguousDocument)

	_, err = ResolveDocument("qqq", docs)
	assert.ErrorIs(t, err, ErrNoDocument)

	_, err = ResolveDocument("  ", docs)
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestParseTimeExpr(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2h", now.Add(-2 * time.Hour)},
		{"90m", now.Add(-90 * time.Minute)},
		{"3d", now.AddDate(0, 0, -3)},
		{"2w", now.AddDate(0, 0, -14)},
		{"1mo", now.AddDate(0, -1, 0)},
		{"2025-01-02", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2025-01-02T08:30", time.Date(2025, 1, 2, 8, 30, 0, 0, time.UTC)},
		{"2025-01-02T08:30:00Z", time.Date(2025, 1, 2, 8, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeExpr(tt.in, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}

	for _, bad := range []string{"", "xd", "-1d", "yesterday"} {
		_, err := ParseTimeExpr(bad, now)
		assert.Error(t, err, bad)
	}
}

func TestParseTimeRange(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	r, err := ParseTimeRange("1d", "3d", now)
	require.NoError(t, err)
	assert.True(t, r.Since.Before(r.Until))
	assert.True(t, r.Contains(now.AddDate(0, 0, -2)))
	assert.False(t, r.Contains(now))

	r, err = ParseTimeRange("", "", now)
	require.NoError(t, err)
	assert.True(t, r.IsZero())
	assert.True(t, r.Contains(now))

	_, err = ParseTimeRange("nope", "", now)
	assert.ErrorContains(t, err, "invalid --since")
}
