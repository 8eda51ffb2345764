package domain

import "errors"

var (
	// ErrUserNotFound the acting user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrReceiverNotFound the transfer target does not exist
	ErrReceiverNotFound = errors.New("receiver not found")

	// ErrInsufficientFunds the debit would drive the balance negative
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAmountMustBePositive the amount is zero or negative
	ErrAmountMustBePositive = errors.New("amount must be positive")

	// ErrSelfTransfer sender and receiver are the same user
	ErrSelfTransfer = errors.New("cannot transfer to the same user")

	// ErrEmailTaken the email is already registered
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials email or password did not match
	ErrInvalidCredentials = errors.New("incorrect email or password")
)
