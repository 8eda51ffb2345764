// Package postgres is the pgx-backed statement store and user directory,
// matching the schema under migrations/.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finapi/go-ledger/internal/app/core/domain"
	"github.com/finapi/go-ledger/internal/app/core/usecase"
)

// Store is the statement store over a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const insertStatement = `
	INSERT INTO statements (id, user_id, type, amount, description, sender_id, receiver_id, transfer_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func (s *Store) Append(ctx context.Context, st *domain.Statement) (*domain.Statement, error) {
	stamp(st)
	_, err := s.pool.Exec(ctx, insertStatement,
		st.ID, st.UserID, string(st.Type), st.Amount, st.Description,
		st.SenderID, st.ReceiverID, st.TransferID, st.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert statement: %w", err)
	}
	return st, nil
}

// AppendPair inserts both rows inside one transaction, so a crash or a
// cancelled request never leaves a one-sided transfer behind.
func (s *Store) AppendPair(ctx context.Context, sender, receiver *domain.Statement) error {
	stamp(sender)
	stamp(receiver)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transfer tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, st := range []*domain.Statement{sender, receiver} {
		_, err := tx.Exec(ctx, insertStatement,
			st.ID, st.UserID, string(st.Type), st.Amount, st.Description,
			st.SenderID, st.ReceiverID, st.TransferID, st.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert transfer pair: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Statement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, type, amount, description, sender_id, receiver_id, transfer_id, created_at
		FROM statements
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list statements: %w", err)
	}
	defer rows.Close()

	var out []domain.Statement
	for rows.Next() {
		var st domain.Statement
		var kind string
		if err := rows.Scan(&st.ID, &st.UserID, &kind, &st.Amount, &st.Description,
			&st.SenderID, &st.ReceiverID, &st.TransferID, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		st.Type = domain.OperationType(kind)
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list statements: %w", err)
	}
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
