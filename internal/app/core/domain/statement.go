package domain

import (
	"time"

	"github.com/google/uuid"
)

// OperationType classifies a statement entry.
type OperationType string

const (
	OperationDeposit  OperationType = "deposit"
	OperationWithdraw OperationType = "withdraw"
	OperationTransfer OperationType = "transfer"
)

// Statement is one immutable ledger entry belonging to a user. Amounts are
// stored positive in minor units; the sign applied during the balance fold
// follows from the operation type and the owner's role.
//
// For a transfer the sender's entry carries ReceiverID and the receiver's
// entry carries SenderID. Both sides share a TransferID so the pair stays
// provably linked for reconciliation.
type Statement struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uuid.UUID     `json:"user_id"`
	Type        OperationType `json:"type"`
	Amount      int64         `json:"amount"`
	Description string        `json:"description"`
	SenderID    *uuid.UUID    `json:"sender_id,omitempty"`
	ReceiverID  *uuid.UUID    `json:"receiver_id,omitempty"`
	TransferID  *uuid.UUID    `json:"transfer_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Delta is the signed contribution of the entry to its owner's balance.
// Deposits and transfers received add; withdrawals and transfers sent
// subtract.
func (s *Statement) Delta() int64 {
	switch s.Type {
	case OperationDeposit:
		return s.Amount
	case OperationWithdraw:
		return -s.Amount
	case OperationTransfer:
		if s.ReceiverID != nil {
			// owner is the sender
			return -s.Amount
		}
		return s.Amount
	}
	return 0
}

// BalanceOf reduces a statement history to a balance. The fold is a plain
// sum, so the result does not depend on the order of the entries. An empty
// history folds to zero.
func BalanceOf(statements []Statement) int64 {
	var balance int64
	for i := range statements {
		balance += statements[i].Delta()
	}
	return balance
}

// NewTransferPair builds the two linked entries of a transfer, sender's
// first. Both carry the same amount, description and transfer id; ids and
// timestamps are assigned by the statement store on append.
func NewTransferPair(senderID, receiverID uuid.UUID, amount int64, description string) (sender, receiver *Statement) {
	transferID := uuid.New()
	sender = &Statement{
		UserID:      senderID,
		Type:        OperationTransfer,
		Amount:      amount,
		Description: description,
		ReceiverID:  &receiverID,
		TransferID:  &transferID,
	}
	receiver = &Statement{
		UserID:      receiverID,
		Type:        OperationTransfer,
		Amount:      amount,
		Description: description,
		SenderID:    &senderID,
		TransferID:  &transferID,
	}
	return sender, receiver
}
