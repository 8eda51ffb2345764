package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/finapi/go-ledger/internal/app/core/domain"
)

// UserUseCase covers registration and credential checks against the user
// directory. Token issuance is out of scope; a successful Authenticate only
// returns the user record.
type UserUseCase struct {
	users UserDirectory
}

func NewUserUseCase(users UserDirectory) *UserUseCase {
	return &UserUseCase{users: users}
}

// normalizeEmail is applied to every email before it reaches the directory,
// so stored emails and lookups agree regardless of backend collation.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with a hashed password. Fails with
// domain.ErrEmailTaken when the email is already registered.
func (u *UserUseCase) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	_, err := u.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, domain.ErrEmailTaken
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	usr, err := domain.NewUser(name, email, password)
	if err != nil {
		return nil, err
	}
	return u.users.Create(ctx, usr)
}

// Authenticate verifies email and password and returns the matching user.
// Absent user and wrong password are indistinguishable to the caller.
func (u *UserUseCase) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	usr, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !usr.CheckPassword(password) {
		return nil, domain.ErrInvalidCredentials
	}
	return usr, nil
}
