package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/finapi/go-ledger/internal/app/core/domain"
	"github.com/finapi/go-ledger/pkg/keylock"
)

// LedgerUseCase implements the ledger operations on top of a statement store
// and the user directory.
//
// The read-balance-then-append sequence of Withdraw and Transfer is
// serialized per debited user with a keyed mutex, so two concurrent debits
// cannot both observe the pre-debit balance and both succeed when only one
// should. Credits never need the lock: the log is append-only and a deposit
// cannot invalidate a sufficiency check.
type LedgerUseCase struct {
	users      UserDirectory
	statements StatementStore
	locks      *keylock.Keyed
}

func NewLedgerUseCase(users UserDirectory, statements StatementStore) *LedgerUseCase {
	return &LedgerUseCase{
		users:      users,
		statements: statements,
		locks:      keylock.New(),
	}
}

// Balance is the result of GetBalance: the derived balance plus the history
// it was computed from.
type Balance struct {
	Balance   int64              `json:"balance"`
	Statement []domain.Statement `json:"statement"`
}

// Deposit appends one deposit entry for the user.
func (l *LedgerUseCase) Deposit(ctx context.Context, userID uuid.UUID, amount int64, description string) (*domain.Statement, error) {
	if amount <= 0 {
		return nil, domain.ErrAmountMustBePositive
	}
	if _, err := l.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	st := &domain.Statement{
		UserID:      userID,
		Type:        domain.OperationDeposit,
		Amount:      amount,
		Description: description,
	}
	return l.statements.Append(ctx, st)
}

// Withdraw appends one withdraw entry for the full requested amount, or
// fails with domain.ErrInsufficientFunds without writing anything.
func (l *LedgerUseCase) Withdraw(ctx context.Context, userID uuid.UUID, amount int64, description string) (*domain.Statement, error) {
	if amount <= 0 {
		return nil, domain.ErrAmountMustBePositive
	}
	if _, err := l.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	unlock := l.locks.Lock(userID.String())
	defer unlock()

	history, err := l.statements.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if domain.BalanceOf(history) < amount {
		return nil, domain.ErrInsufficientFunds
	}
	st := &domain.Statement{
		UserID:      userID,
		Type:        domain.OperationWithdraw,
		Amount:      amount,
		Description: description,
	}
	return l.statements.Append(ctx, st)
}

// Transfer moves amount from sender to receiver by appending a linked pair
// of transfer entries, sender's first. On any failure no entry is written.
func (l *LedgerUseCase) Transfer(ctx context.Context, senderID, receiverID uuid.UUID, amount int64, description string) ([]*domain.Statement, error) {
	if amount <= 0 {
		return nil, domain.ErrAmountMustBePositive
	}
	if senderID == receiverID {
		return nil, domain.ErrSelfTransfer
	}
	if _, err := l.users.FindByID(ctx, senderID); err != nil {
		return nil, err
	}
	if _, err := l.users.FindByID(ctx, receiverID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrReceiverNotFound
		}
		return nil, err
	}

	unlock := l.locks.Lock(senderID.String())
	defer unlock()

	history, err := l.statements.ListByUser(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if domain.BalanceOf(history) < amount {
		return nil, domain.ErrInsufficientFunds
	}

	sender, receiver := domain.NewTransferPair(senderID, receiverID, amount, description)
	if err := l.statements.AppendPair(ctx, sender, receiver); err != nil {
		return nil, err
	}
	return []*domain.Statement{sender, receiver}, nil
}

// GetBalance folds the user's statement history into a balance and returns
// it together with the history itself.
func (l *LedgerUseCase) GetBalance(ctx context.Context, userID uuid.UUID) (*Balance, error) {
	if _, err := l.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	history, err := l.statements.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []domain.Statement{}
	}
	return &Balance{
		Balance:   domain.BalanceOf(history),
		Statement: history,
	}, nil
}
