package employee

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a registry entry owned by exactly one user. CPF is held
// in its digits-only canonical form; formatting happens at the API
// boundary.
type Employee struct {
	ID        int64
	UserID    uuid.UUID
	Name      string
	Email     string
	CPF       string
	City      string
	State     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether the employee belongs to the given user.
func (e Employee) OwnedBy(userID uuid.UUID) bool {
	return e.UserID == userID
}
