// Package sqldb is the GORM-backed statement store and user directory. It is
// dialect-agnostic: the server wires it to MySQL (pkg/mysql) or SQLite.
package sqldb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finapi/go-ledger/internal/app/core/domain"
)

// sqlUser maps the users table.
type sqlUser struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"size:255"`
	Email        string `gorm:"size:255;uniqueIndex"`
	PasswordHash string `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (*sqlUser) TableName() string {
	return "users"
}

// sqlStatement maps the statements table. Counterparty and transfer ids are
// nullable: only transfer rows carry them.
type sqlStatement struct {
	ID          string `gorm:"primaryKey;size:36"`
	UserID      string `gorm:"size:36;index"`
	Type        string `gorm:"size:16"`
	Amount      int64
	Description string  `gorm:"size:255"`
	SenderID    *string `gorm:"size:36"`
	ReceiverID  *string `gorm:"size:36"`
	TransferID  *string `gorm:"size:36;index"`
	CreatedAt   time.Time
}

func (*sqlStatement) TableName() string {
	return "statements"
}

// Migrate creates the tables when they do not exist yet.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&sqlUser{}, &sqlStatement{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func toSQLStatement(st *domain.Statement) sqlStatement {
	return sqlStatement{
		ID:          st.ID.String(),
		UserID:      st.UserID.String(),
		Type:        string(st.Type),
		Amount:      st.Amount,
		Description: st.Description,
		SenderID:    uuidToString(st.SenderID),
		ReceiverID:  uuidToString(st.ReceiverID),
		TransferID:  uuidToString(st.TransferID),
		CreatedAt:   st.CreatedAt,
	}
}

func toDomainStatement(row *sqlStatement) (domain.Statement, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return domain.Statement{}, fmt.Errorf("statement id %q: %w", row.ID, err)
	}
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return domain.Statement{}, fmt.Errorf("statement user id %q: %w", row.UserID, err)
	}
	senderID, err := stringToUUID(row.SenderID)
	if err != nil {
		return domain.Statement{}, err
	}
	receiverID, err := stringToUUID(row.ReceiverID)
	if err != nil {
		return domain.Statement{}, err
	}
	transferID, err := stringToUUID(row.TransferID)
	if err != nil {
		return domain.Statement{}, err
	}
	return domain.Statement{
		ID:          id,
		UserID:      userID,
		Type:        domain.OperationType(row.Type),
		Amount:      row.Amount,
		Description: row.Description,
		SenderID:    senderID,
		ReceiverID:  receiverID,
		TransferID:  transferID,
		CreatedAt:   row.CreatedAt,
	}, nil
}

func toSQLUser(u *domain.User) sqlUser {
	return sqlUser{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toDomainUser(row *sqlUser) (*domain.User, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("user id %q: %w", row.ID, err)
	}
	return &domain.User{
		ID:           id,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}

func uuidToString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func stringToUUID(s *string) (*uuid.UUID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, fmt.Errorf("uuid %q: %w", *s, err)
	}
	return &id, nil
}
