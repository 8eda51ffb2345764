package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/finapi/go-ledger/internal/app/core/domain"
)

// StatementStore is the append-only record store of ledger entries.
type StatementStore interface {
	// Append assigns an id and timestamp to the entry, persists it and
	// returns it.
	Append(ctx context.Context, st *domain.Statement) (*domain.Statement, error)

	// AppendPair persists the two sides of a transfer as a single atomic
	// unit: either both entries are durably recorded or neither is. Ids
	// and timestamps are assigned to both entries.
	AppendPair(ctx context.Context, sender, receiver *domain.Statement) error

	// ListByUser returns every entry owned by the user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Statement, error)
}

// UserDirectory is the collaborator holding user records. Lookups return
// domain.ErrUserNotFound when the user is absent.
type UserDirectory interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
