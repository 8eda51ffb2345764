package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestBalanceOfEmptyHistory(t *testing.T) {
	if got := BalanceOf(nil); got != 0 {
		t.Fatalf("balance=%d want=0", got)
	}
	if got := BalanceOf([]Statement{}); got != 0 {
		t.Fatalf("balance=%d want=0", got)
	}
}

func TestBalanceOfMixedHistory(t *testing.T) {
	userID := uuid.New()
	other := uuid.New()

	history := []Statement{
		{UserID: userID, Type: OperationDeposit, Amount: 500},
		{UserID: userID, Type: OperationWithdraw, Amount: 120},
		// transfer sent: counterparty recorded as receiver
		{UserID: userID, Type: OperationTransfer, Amount: 200, ReceiverID: &other},
		// transfer received: counterparty recorded as sender
		{UserID: userID, Type: OperationTransfer, Amount: 50, SenderID: &other},
	}

	want := int64(500 - 120 - 200 + 50)
	if got := BalanceOf(history); got != want {
		t.Fatalf("balance=%d want=%d", got, want)
	}

	// A pure sum must not care about ordering.
	reversed := make([]Statement, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		reversed = append(reversed, history[i])
	}
	if got := BalanceOf(reversed); got != want {
		t.Fatalf("reversed balance=%d want=%d", got, want)
	}
}

func TestDeltaPerKind(t *testing.T) {
	other := uuid.New()
	cases := []struct {
		name string
		st   Statement
		want int64
	}{
		{"deposit", Statement{Type: OperationDeposit, Amount: 10}, 10},
		{"withdraw", Statement{Type: OperationWithdraw, Amount: 10}, -10},
		{"transfer sent", Statement{Type: OperationTransfer, Amount: 10, ReceiverID: &other}, -10},
		{"transfer received", Statement{Type: OperationTransfer, Amount: 10, SenderID: &other}, 10},
	}
	for _, c := range cases {
		if got := c.st.Delta(); got != c.want {
			t.Fatalf("%s: delta=%d want=%d", c.name, got, c.want)
		}
	}
}

func TestNewTransferPair(t *testing.T) {
	senderID := uuid.New()
	receiverID := uuid.New()

	sender, receiver := NewTransferPair(senderID, receiverID, 200, "donate")

	if sender.UserID != senderID || receiver.UserID != receiverID {
		t.Fatalf("pair owners wrong: %v %v", sender.UserID, receiver.UserID)
	}
	if sender.Type != OperationTransfer || receiver.Type != OperationTransfer {
		t.Fatalf("pair types: %s %s", sender.Type, receiver.Type)
	}
	if sender.Amount != 200 || receiver.Amount != 200 {
		t.Fatalf("pair amounts: %d %d", sender.Amount, receiver.Amount)
	}
	if sender.Description != "donate" || receiver.Description != "donate" {
		t.Fatalf("pair descriptions: %q %q", sender.Description, receiver.Description)
	}

	// sender side links the receiver and vice versa, never both
	if sender.ReceiverID == nil || *sender.ReceiverID != receiverID || sender.SenderID != nil {
		t.Fatalf("sender entry counterparty wrong: %+v", sender)
	}
	if receiver.SenderID == nil || *receiver.SenderID != senderID || receiver.ReceiverID != nil {
		t.Fatalf("receiver entry counterparty wrong: %+v", receiver)
	}

	if sender.TransferID == nil || receiver.TransferID == nil || *sender.TransferID != *receiver.TransferID {
		t.Fatal("pair must share a transfer id")
	}
}
