package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mithrel/docqa/pkg/api"
)

type sqliteStore struct{ db *sql.DB }

func openSQLite(ctx context.Context, dsn string) (*Store, io.Closer, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, err
	}
	// one writer; the TUI and CLI share a handle
	dbh.SetMaxOpenConns(1)
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if _, err := dbh.ExecContext(ctx, `PRAGMA busy_timeout=5000;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	s := &sqliteStore{db: dbh}
	return &Store{Messages: s, Uploads: uploadRepo{s}, db: dbh}, dbh, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS messages (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  document_id INTEGER NOT NULL,
  role TEXT NOT NULL,
  content TEXT NOT NULL,
  sources TEXT NOT NULL DEFAULT '[]',
  error INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_doc_id ON messages(document_id, id);
CREATE TABLE IF NOT EXISTS uploads (
  digest TEXT PRIMARY KEY,
  document_id INTEGER NOT NULL,
  filename TEXT NOT NULL,
  uploaded_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_uploads_doc ON uploads(document_id);
`)
	return err
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func (s *sqliteStore) Append(ctx context.Context, m api.Message) (api.Message, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	m.CreatedAt = fromMillis(toMillis(m.CreatedAt))
	sources := m.Sources
	if sources == nil {
		sources = []string{}
	}
	srcJSON, err := json.Marshal(sources)
	if err != nil {
		return api.Message{}, err
	}
	res, err := conn(ctx, s.db).ExecContext(ctx,
		`INSERT INTO messages(document_id, role, content, sources, error, created_at) VALUES(?,?,?,?,?,?)`,
		m.DocumentID, string(m.Role), m.Content, string(srcJSON), m.Error, toMillis(m.CreatedAt))
	if err != nil {
		return api.Message{}, err
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		return api.Message{}, err
	}
	return m, nil
}

func (s *sqliteStore) List(ctx context.Context, documentID int64, limit int) ([]api.Message, error) {
	q := `SELECT id, document_id, role, content, sources, error, created_at FROM messages WHERE document_id=? ORDER BY id DESC`
	args := []any{documentID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := conn(ctx, s.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []api.Message
	for rows.Next() {
		var m api.Message
		var role, srcJSON string
		var created int64
		if err := rows.Scan(&m.ID, &m.DocumentID, &role, &m.Content, &srcJSON, &m.Error, &created); err != nil {
			return nil, err
		}
		m.Role = api.Role(role)
		m.CreatedAt = fromMillis(created)
		if err := json.Unmarshal([]byte(srcJSON), &m.Sources); err != nil {
			return nil, fmt.Errorf("message %d: decode sources: %w", m.ID, err)
		}
		if len(m.Sources) == 0 {
			m.Sources = nil
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}

func (s *sqliteStore) Clear(ctx context.Context, documentID int64) (int64, error) {
	res, err := conn(ctx, s.db).ExecContext(ctx, `DELETE FROM messages WHERE document_id=?`, documentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *sqliteStore) Documents(ctx context.Context) ([]DocumentHistory, error) {
	rows, err := conn(ctx, s.db).QueryContext(ctx,
		`SELECT document_id, COUNT(*), MAX(created_at) FROM messages GROUP BY document_id ORDER BY MAX(created_at) DESC, document_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DocumentHistory
	for rows.Next() {
		var h DocumentHistory
		var last int64
		if err := rows.Scan(&h.DocumentID, &h.Messages, &last); err != nil {
			return nil, err
		}
		h.LastAt = fromMillis(last)
		out = append(out, h)
	}
	return out, rows.Err()
}

type uploadRepo struct{ s *sqliteStore }

// Put records a digest, replacing an earlier record of the same content.
func (u uploadRepo) Put(ctx context.Context, r api.UploadRecord) error {
	if r.UploadedAt.IsZero() {
		r.UploadedAt = time.Now().UTC()
	}
	_, err := conn(ctx, u.s.db).ExecContext(ctx,
		`INSERT INTO uploads(digest, document_id, filename, uploaded_at) VALUES(?,?,?,?)
ON CONFLICT(digest) DO UPDATE SET document_id=excluded.document_id, filename=excluded.filename, uploaded_at=excluded.uploaded_at`,
		r.Digest, r.DocumentID, r.Filename, toMillis(r.UploadedAt))
	return err
}

func (u uploadRepo) Get(ctx context.Context, digest string) (api.UploadRecord, error) {
	var r api.UploadRecord
	var at int64
	row := conn(ctx, u.s.db).QueryRowContext(ctx, `SELECT digest, document_id, filename, uploaded_at FROM uploads WHERE digest=?`, digest)
	if err := row.Scan(&r.Digest, &r.DocumentID, &r.Filename, &at); err != nil {
		if err == sql.ErrNoRows {
			return api.UploadRecord{}, ErrNotFound
		}
		return api.UploadRecord{}, err
	}
	r.UploadedAt = fromMillis(at)
	return r, nil
}

func (u uploadRepo) DeleteByDocument(ctx context.Context, documentID int64) (int64, error) {
	res, err := conn(ctx, u.s.db).ExecContext(ctx, `DELETE FROM uploads WHERE document_id=?`, documentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
