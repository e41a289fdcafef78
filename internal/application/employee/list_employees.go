package employee

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/mohammadpnp/employee-registry/internal/domain/employee"
)

type ListEmployeesInput struct {
	UserID uuid.UUID
	Page   Page
}

type ListEmployeesOutput struct {
	Data []EmployeeOutput `json:"data"`
	Meta PageMeta         `json:"meta"`
}

// PageMeta mirrors simple pagination: no total count, just whether a
// further page exists.
type PageMeta struct {
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	HasMore     bool `json:"has_more"`
}

type ListEmployees interface {
	Execute(ctx context.Context, in ListEmployeesInput) (ListEmployeesOutput, error)
}

type employeeLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Employee, error)
}

type listEmployees struct {
	repo employeeLister
}

func NewListEmployees(repo employeeLister) ListEmployees {
	return &listEmployees{repo: repo}
}

func (uc *listEmployees) Execute(ctx context.Context, in ListEmployeesInput) (ListEmployeesOutput, error) {
	limit := in.Page.Limit()

	// Fetch one extra row to learn whether a next page exists.
	rows, err := uc.repo.ListByUser(ctx, in.UserID, in.Page.Offset(), limit+1)
	if err != nil {
		return ListEmployeesOutput{}, fmt.Errorf("list employees: %w", err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	out := ListEmployeesOutput{
		Data: make([]EmployeeOutput, 0, len(rows)),
		Meta: PageMeta{
			CurrentPage: in.Page.normalized().Number,
			PerPage:     limit,
			HasMore:     hasMore,
		},
	}
	for _, row := range rows {
		out.Data = append(out.Data, toOutput(row))
	}
	return out, nil
}
