// Package memory provides the in-process statement store and user
// directory, optionally backed by a write-ahead log.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finapi/go-ledger/internal/app/core/domain"
	"github.com/finapi/go-ledger/internal/app/core/usecase"
	"github.com/finapi/go-ledger/pkg/wal"
)

// walRecord is one durable unit of appended statements. A transfer pair is
// written as a single record, so replay can never observe a one-sided
// transfer.
type walRecord struct {
	Statements []domain.Statement `json:"statements"`
}

// Store keeps each user's statements in memory. When a WAL is supplied,
// appends hit the log before memory and NewStore replays the log to rebuild
// the history after a restart.
type Store struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID][]domain.Statement
	wal    *wal.WAL
}

// NewStore builds the store and, when w is non-nil, recovers state from it.
func NewStore(w *wal.WAL) (*Store, error) {
	s := &Store{
		byUser: make(map[uuid.UUID][]domain.Statement),
		wal:    w,
	}
	if w != nil {
		if err := s.recoverFromWAL(); err != nil {
			return nil, fmt.Errorf("wal recovery: %w", err)
		}
	}
	return s, nil
}

func (s *Store) recoverFromWAL() error {
	return s.wal.ReadAll(func(raw []byte) error {
		var rec walRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		for i := range rec.Statements {
			st := rec.Statements[i]
			s.byUser[st.UserID] = append(s.byUser[st.UserID], st)
		}
		return nil
	})
}

// Append assigns id/timestamp, logs the entry and adds it to the owner's
// history.
func (s *Store) Append(ctx context.Context, st *domain.Statement) (*domain.Statement, error) {
	stamp(st)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wal != nil {
		if err := s.wal.Write(walRecord{Statements: []domain.Statement{*st}}); err != nil {
			return nil, fmt.Errorf("wal write: %w", err)
		}
	}
	s.byUser[st.UserID] = append(s.byUser[st.UserID], *st)
	return st, nil
}

// AppendPair records both sides of a transfer under one lock acquisition and
// one WAL record, so no reader or replay sees only half of the pair.
func (s *Store) AppendPair(ctx context.Context, sender, receiver *domain.Statement) error {
	stamp(sender)
	stamp(receiver)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wal != nil {
		if err := s.wal.Write(walRecord{Statements: []domain.Statement{*sender, *receiver}}); err != nil {
			return fmt.Errorf("wal write: %w", err)
		}
	}
	s.byUser[sender.UserID] = append(s.byUser[sender.UserID], *sender)
	s.byUser[receiver.UserID] = append(s.byUser[receiver.UserID], *receiver)
	return nil
}

// ListByUser returns a copy of the user's history.
func (s *Store) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Statement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.byUser[userID]
	out := make([]domain.Statement, len(entries))
	copy(out, entries)
	return out, nil
}

func stamp(st *domain.Statement) {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
}

var _ usecase.StatementStore = (*Store)(nil)
