package sqldb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finapi/go-ledger/internal/app/core/domain"
)

// openTestDB opens a throwaway sqlite database with the same gorm.Config the
// server uses, TranslateError included.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestDirectoryCreateAndFind(t *testing.T) {
	dir := NewDirectory(openTestDB(t))
	ctx := context.Background()

	u, err := domain.NewUser("Olivia Day", "olivia@example.com", "123456")
	if err != nil {
		t.Fatal(err)
	}
	created, err := dir.Create(ctx, u)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	byID, err := dir.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID.Email != "olivia@example.com" {
		t.Fatalf("email=%q", byID.Email)
	}

	byEmail, err := dir.FindByEmail(ctx, "olivia@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Fatalf("id=%v want=%v", byEmail.ID, created.ID)
	}
}

func TestDirectoryDuplicateEmail(t *testing.T) {
	dir := NewDirectory(openTestDB(t))
	ctx := context.Background()

	first, err := domain.NewUser("A", "same@example.com", "123456")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dir.Create(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// The unique index is the last line of defense when two registrations
	// race past the use-case pre-check.
	second, err := domain.NewUser("B", "same@example.com", "654321")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dir.Create(ctx, second); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got: %v", err)
	}
}

func TestDirectoryFindUnknown(t *testing.T) {
	dir := NewDirectory(openTestDB(t))
	ctx := context.Background()

	if _, err := dir.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got: %v", err)
	}
}
