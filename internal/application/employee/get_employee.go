package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/mohammadpnp/employee-registry/internal/domain/employee"
)

type GetEmployeeInput struct {
	UserID     uuid.UUID
	EmployeeID int64
}

type GetEmployee interface {
	Execute(ctx context.Context, in GetEmployeeInput) (EmployeeOutput, error)
}

type employeeGetter interface {
	FindByID(ctx context.Context, id int64) (*domain.Employee, error)
}

type getEmployee struct {
	repo employeeGetter
}

func NewGetEmployee(repo employeeGetter) GetEmployee {
	return &getEmployee{repo: repo}
}

func (uc *getEmployee) Execute(ctx context.Context, in GetEmployeeInput) (EmployeeOutput, error) {
	record, err := uc.repo.FindByID(ctx, in.EmployeeID)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return EmployeeOutput{}, ErrEmployeeNotFound
		}
		return EmployeeOutput{}, fmt.Errorf("get employee: %w", err)
	}

	if !record.OwnedBy(in.UserID) {
		return EmployeeOutput{}, ErrNotOwner
	}
	return toOutput(*record), nil
}
