package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/mohammadpnp/employee-registry/internal/domain/employee"
)

type DeleteEmployeeInput struct {
	UserID     uuid.UUID
	EmployeeID int64
}

type DeleteEmployee interface {
	Execute(ctx context.Context, in DeleteEmployeeInput) error
}

type employeeDeleter interface {
	FindByID(ctx context.Context, id int64) (*domain.Employee, error)
	SoftDelete(ctx context.Context, id int64) error
}

type deleteEmployee struct {
	repo employeeDeleter
}

func NewDeleteEmployee(repo employeeDeleter) DeleteEmployee {
	return &deleteEmployee{repo: repo}
}

func (uc *deleteEmployee) Execute(ctx context.Context, in DeleteEmployeeInput) error {
	record, err := uc.repo.FindByID(ctx, in.EmployeeID)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("find employee: %w", err)
	}
	if !record.OwnedBy(in.UserID) {
		return ErrNotOwner
	}

	if err := uc.repo.SoftDelete(ctx, in.EmployeeID); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}
