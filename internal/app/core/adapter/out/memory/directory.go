package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finapi/go-ledger/internal/app/core/domain"
	"github.com/finapi/go-ledger/internal/app/core/usecase"
)

// Directory is the in-memory user directory. Lookups hand out copies so
// callers cannot mutate directory state.
type Directory struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]uuid.UUID
}

func NewDirectory() *Directory {
	return &Directory{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (d *Directory) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	key := emailKey(u.Email)

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byEmail[key]; ok {
		return nil, domain.ErrEmailTaken
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	cp := *u
	d.byID[cp.ID] = &cp
	d.byEmail[key] = cp.ID
	return u, nil
}

func (d *Directory) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byEmail[emailKey(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *d.byID[id]
	return &cp, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ usecase.UserDirectory = (*Directory)(nil)
