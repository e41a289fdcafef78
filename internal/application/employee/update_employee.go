package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/mohammadpnp/employee-registry/internal/domain/employee"
	"github.com/mohammadpnp/employee-registry/pkg/cpf"
)

type UpdateEmployeeInput struct {
	UserID     uuid.UUID
	EmployeeID int64
	Name       string
	Email      string
	CPF        string
	City       string
	State      string
}

type UpdateEmployee interface {
	Execute(ctx context.Context, in UpdateEmployeeInput) (EmployeeOutput, error)
}

type employeeUpdater interface {
	FindByID(ctx context.Context, id int64) (*domain.Employee, error)
	ExistsByEmail(ctx context.Context, userID uuid.UUID, email string, ignoreID int64) (bool, error)
	ExistsByCPF(ctx context.Context, userID uuid.UUID, cpfDigits string, ignoreID int64) (bool, error)
	Update(ctx context.Context, e domain.Employee) error
}

type updateEmployee struct {
	repo employeeUpdater
}

func NewUpdateEmployee(repo employeeUpdater) UpdateEmployee {
	return &updateEmployee{repo: repo}
}

func (uc *updateEmployee) Execute(ctx context.Context, in UpdateEmployeeInput) (EmployeeOutput, error) {
	record, err := uc.repo.FindByID(ctx, in.EmployeeID)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return EmployeeOutput{}, ErrEmployeeNotFound
		}
		return EmployeeOutput{}, fmt.Errorf("find employee: %w", err)
	}
	if !record.OwnedBy(in.UserID) {
		return EmployeeOutput{}, ErrNotOwner
	}

	row := domain.RowInput{Name: in.Name, Email: in.Email, CPF: in.CPF, City: in.City, State: in.State}
	errs := domain.ValidateRow(row)

	cpfDigits := cpf.OnlyDigits(in.CPF)
	if len(errs["email"]) == 0 {
		taken, err := uc.repo.ExistsByEmail(ctx, in.UserID, in.Email, record.ID)
		if err != nil {
			return EmployeeOutput{}, fmt.Errorf("check email uniqueness: %w", err)
		}
		if taken {
			errs.Add("email", domain.TakenMessage("email"))
		}
	}
	if len(errs["cpf"]) == 0 {
		taken, err := uc.repo.ExistsByCPF(ctx, in.UserID, cpfDigits, record.ID)
		if err != nil {
			return EmployeeOutput{}, fmt.Errorf("check cpf uniqueness: %w", err)
		}
		if taken {
			errs.Add("cpf", domain.TakenMessage("cpf"))
		}
	}
	if !errs.Empty() {
		return EmployeeOutput{}, &ValidationError{Errors: errs}
	}

	record.Name = in.Name
	record.Email = in.Email
	record.CPF = cpfDigits
	record.City = in.City
	record.State = in.State

	if err := uc.repo.Update(ctx, *record); err != nil {
		return EmployeeOutput{}, fmt.Errorf("update employee: %w", err)
	}
	return toOutput(*record), nil
}
