// Package chat runs question/answer exchanges against a document and keeps
// the local transcript in step with them.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mithrel/docqa/pkg/api"
)

// MaxQuestionLen is the backend's limit on question length, in characters.
const MaxQuestionLen = 1000

// FallbackAnswer is stored in place of an answer when the backend fails.
const FallbackAnswer = "Sorry, I encountered an error. Please try again."

var (
	ErrEmptyQuestion   = errors.New("question is empty")
	ErrQuestionTooLong = fmt.Errorf("question exceeds %d characters", MaxQuestionLen)
)

type Asker interface {
	Ask(ctx context.Context, documentID int64, question string) (api.ChatResponse, error)
}

type MessageStore interface {
	Append(ctx context.Context, m api.Message) (api.Message, error)
	List(ctx context.Context, documentID int64, limit int) ([]api.Message, error)
	Clear(ctx context.Context, documentID int64) (int64, error)
}

// Exchange is one question together with the reply recorded for it.
type Exchange struct {
	Question api.Message
	Answer   api.Message
	Took     time.Duration
}

type Service struct {
	Client Asker
	Store  MessageStore
	Log    *zap.Logger
	// Now is used for message timestamps; defaults to time.Now.
	Now    func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// Validate trims a question and checks it against the backend limits.
func Validate(question string) (string, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return "", ErrEmptyQuestion
	}
	if utf8.RuneCountInString(q) > MaxQuestionLen {
		return "", ErrQuestionTooLong
	}
	return q, nil
}

// Ask records the question, asks the backend and records the reply. When the
// backend fails the recorded reply is FallbackAnswer marked as an error and
// the backend error is returned along with the exchange.
func (s *Service) Ask(ctx context.Context, documentID int64, question string) (Exchange, error) {
	q, err := Validate(question)
	if err != nil {
		return Exchange{}, err
	}
	var ex Exchange
	ex.Question, err = s.Store.Append(ctx, api.Message{
		DocumentID: documentID,
		Role:       api.RoleUser,
		Content:    q,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return Exchange{}, fmt.Errorf("record question: %w", err)
	}

	start := time.Now()
	resp, askErr := s.Client.Ask(ctx, documentID, q)
	ex.Took = time.Since(start)

	reply := api.Message{DocumentID: documentID, Role: api.RoleAssistant, CreatedAt: s.now()}
	if askErr != nil {
		s.log().Warn("ask failed", zap.Int64("document", documentID), zap.Duration("took", ex.Took), zap.Error(askErr))
		reply.Content = FallbackAnswer
		reply.Error = true
	} else {
		s.log().Debug("answered", zap.Int64("document", documentID), zap.Int("sources", len(resp.Sources)), zap.Duration("took", ex.Took))
		reply.Content = resp.Answer
		reply.Sources = resp.Sources
	}
	ex.Answer, err = s.Store.Append(ctx, reply)
	if err != nil {
		return ex, errors.Join(askErr, fmt.Errorf("record answer: %w", err))
	}
	return ex, askErr
}

func (s *Service) History(ctx context.Context, documentID int64, limit int) ([]api.Message, error) {
	return s.Store.List(ctx, documentID, limit)
}

// Clear drops the transcript of a document and reports how many messages went.
func (s *Service) Clear(ctx context.Context, documentID int64) (int64, error) {
	n, err := s.Store.Clear(ctx, documentID)
	if err == nil {
		s.log().Debug("history cleared", zap.Int64("document", documentID), zap.Int64("messages", n))
	}
	return n, err
}
