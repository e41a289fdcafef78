package user

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the authenticated account that owns a private set of
// employees and ledger entries.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewUser(id uuid.UUID, name, email, passwordHash string) (User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, ErrInvalidEmail
	}
	if strings.TrimSpace(name) == "" {
		return User{}, ErrInvalidName
	}

	return User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}, nil
}
