package employee

import (
	"fmt"
	"time"

	domain "github.com/mohammadpnp/employee-registry/internal/domain/employee"
	"github.com/mohammadpnp/employee-registry/pkg/cpf"
)

// EmployeeOutput is the API shape of an employee. CPF is formatted for
// display here; storage stays digits-only.
type EmployeeOutput struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CPF       string    `json:"cpf"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toOutput(e domain.Employee) EmployeeOutput {
	return EmployeeOutput{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		CPF:       cpf.Format(e.CPF),
		City:      e.City,
		State:     e.State,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ValidationError carries the per-field rejection map for synchronous
// CRUD requests.
type ValidationError struct {
	Errors domain.ValidationErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Errors))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Page carries the simple pagination parameters of list endpoints.
type Page struct {
	Number  int
	PerPage int
}

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

func (p Page) normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	return p
}

// Offset is the row offset of the page.
func (p Page) Offset() int {
	n := p.normalized()
	return (n.Number - 1) * n.PerPage
}

// Limit is the page size.
func (p Page) Limit() int {
	return p.normalized().PerPage
}
