package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finapi/go-ledger/internal/app/core/domain"
	"github.com/finapi/go-ledger/internal/app/core/usecase"
)

// Store is the statement store over a relational database.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, st *domain.Statement) (*domain.Statement, error) {
	stampStatement(st)
	row := toSQLStatement(st)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("insert statement: %w", err)
	}
	return st, nil
}

// AppendPair writes both rows inside one database transaction. The pool
// client skips GORM's implicit per-write transaction, so this explicit one
// is the only place pair atomicity comes from.
func (s *Store) AppendPair(ctx context.Context, sender, receiver *domain.Statement) error {
	stampStatement(sender)
	stampStatement(receiver)
	rows := []sqlStatement{toSQLStatement(sender), toSQLStatement(receiver)}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert transfer pair: %w", err)
	}
	return nil
}

func (s *Store) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Statement, error) {
	var rows []sqlStatement
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list statements: %w", err)
	}

	out := make([]domain.Statement, 0, len(rows))
	for i := range rows {
		st, err := toDomainStatement(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func stampStatement(st *domain.Statement) {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
}

var _ usecase.StatementStore = (*Store)(nil)
