package employee

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/mohammadpnp/employee-registry/internal/domain/employee"
	"github.com/mohammadpnp/employee-registry/pkg/cpf"
)

type CreateEmployeeInput struct {
	UserID uuid.UUID
	Name   string
	Email  string
	CPF    string
	City   string
	State  string
}

type CreateEmployee interface {
	Execute(ctx context.Context, in CreateEmployeeInput) (EmployeeOutput, error)
}

type employeeCreator interface {
	ExistsByEmail(ctx context.Context, userID uuid.UUID, email string, ignoreID int64) (bool, error)
	ExistsByCPF(ctx context.Context, userID uuid.UUID, cpfDigits string, ignoreID int64) (bool, error)
	Create(ctx context.Context, e domain.Employee) (domain.Employee, error)
}

type createEmployee struct {
	repo employeeCreator
}

func NewCreateEmployee(repo employeeCreator) CreateEmployee {
	return &createEmployee{repo: repo}
}

func (uc *createEmployee) Execute(ctx context.Context, in CreateEmployeeInput) (EmployeeOutput, error) {
	row := domain.RowInput{Name: in.Name, Email: in.Email, CPF: in.CPF, City: in.City, State: in.State}
	errs := domain.ValidateRow(row)

	cpfDigits := cpf.OnlyDigits(in.CPF)
	if err := uc.checkUnique(ctx, in.UserID, in.Email, cpfDigits, 0, errs); err != nil {
		return EmployeeOutput{}, err
	}
	if !errs.Empty() {
		return EmployeeOutput{}, &ValidationError{Errors: errs}
	}

	created, err := uc.repo.Create(ctx, domain.Employee{
		UserID: in.UserID,
		Name:   in.Name,
		Email:  in.Email,
		CPF:    cpfDigits,
		City:   in.City,
		State:  in.State,
	})
	if err != nil {
		return EmployeeOutput{}, fmt.Errorf("create employee: %w", err)
	}
	return toOutput(created), nil
}

func (uc *createEmployee) checkUnique(ctx context.Context, userID uuid.UUID, email, cpfDigits string, ignoreID int64, errs domain.ValidationErrors) error {
	if len(errs["email"]) == 0 {
		taken, err := uc.repo.ExistsByEmail(ctx, userID, email, ignoreID)
		if err != nil {
			return fmt.Errorf("check email uniqueness: %w", err)
		}
		if taken {
			errs.Add("email", domain.TakenMessage("email"))
		}
	}

	if len(errs["cpf"]) == 0 {
		taken, err := uc.repo.ExistsByCPF(ctx, userID, cpfDigits, ignoreID)
		if err != nil {
			return fmt.Errorf("check cpf uniqueness: %w", err)
		}
		if taken {
			errs.Add("cpf", domain.TakenMessage("cpf"))
		}
	}
	return nil
}
