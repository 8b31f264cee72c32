package db

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"time"

	"github.com/mithrel/docqa/pkg/api"
)

var ErrNotFound = errors.New("not found")

// MessageRepo keeps the local transcript of each document conversation.
type MessageRepo interface {
	Append(ctx context.Context, m api.Message) (api.Message, error)
	// List returns the newest limit messages of a document, oldest first.
	// A limit <= 0 returns all of them.
	List(ctx context.Context, documentID int64, limit int) ([]api.Message, error)
	Clear(ctx context.Context, documentID int64) (int64, error)
	Documents(ctx context.Context) ([]DocumentHistory, error)
}

// UploadRepo caches which local file digests were already uploaded.
type UploadRepo interface {
	Put(ctx context.Context, r api.UploadRecord) error
	Get(ctx context.Context, digest string) (api.UploadRecord, error)
	DeleteByDocument(ctx context.Context, documentID int64) (int64, error)
}

// DocumentHistory summarises the stored transcript of one document.
type DocumentHistory struct {
	DocumentID int64     `json:"document_id"`
	Messages   int       `json:"messages"`
	LastAt     time.Time `json:"last_at"`
}

type Store struct {
	Messages MessageRepo
	Uploads  UploadRepo

	db     *sql.DB
	closer io.Closer
}

// Open returns a Store for a URL of the form sqlite://<path> or a bare path.
func Open(ctx context.Context, url string) (*Store, error) {
	st, closer, err := openSQLite(ctx, url)
	if err != nil {
		return nil, err
	}
	st.closer = closer
	return st, nil
}

func (s *Store) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// ForgetDocument drops the transcript and upload records of a document that
// no longer exists on the server.
func (s *Store) ForgetDocument(ctx context.Context, documentID int64) error {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	ctx = WithTx(ctx, tx)
	if _, err := s.Messages.Clear(ctx, documentID); err != nil {
		return err
	}
	if _, err := s.Uploads.DeleteByDocument(ctx, documentID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}
