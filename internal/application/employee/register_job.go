package employee

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/mohammadpnp/employee-registry/internal/domain/employee"
	"github.com/mohammadpnp/employee-registry/pkg/cpf"
)

// rowFieldCount is the fixed arity of an import row:
// name, email, cpf, city, state.
const rowFieldCount = 5

// Outcome classifies a finished unit of work.
type Outcome string

const (
	OutcomeImported  Outcome = "imported"
	OutcomeRejected  Outcome = "rejected"
	OutcomeCancelled Outcome = "cancelled"
)

type employeeWriter interface {
	FindByEmail(ctx context.Context, userID uuid.UUID, email string) (*domain.Employee, error)
	FindByCPF(ctx context.Context, userID uuid.UUID, cpfDigits string) (*domain.Employee, error)
	Upsert(ctx context.Context, e domain.Employee) error
}

type ledgerAppender interface {
	Append(ctx context.Context, entry domain.FailureEntry) error
}

type cancellationReader interface {
	Cancelled(ctx context.Context, batchID uuid.UUID) (bool, error)
}

// RegisterEmployee executes one import row: validate it against the
// owning user's registry and either upsert the employee or append the
// rejection to the failure ledger. Re-running the same row is safe
// because the upsert key is content-derived (cpf digits + e-mail).
type RegisterEmployee struct {
	employees employeeWriter
	ledger    ledgerAppender
	batches   cancellationReader
}

func NewRegisterEmployee(employees employeeWriter, ledger ledgerAppender, batches cancellationReader) *RegisterEmployee {
	return &RegisterEmployee{
		employees: employees,
		ledger:    ledger,
		batches:   batches,
	}
}

func (s *RegisterEmployee) Execute(ctx context.Context, job domain.RegisterJob) (Outcome, error) {
	cancelled, err := s.batches.Cancelled(ctx, job.BatchID)
	if err != nil {
		return "", fmt.Errorf("read batch cancellation: %w", err)
	}
	if cancelled {
		return OutcomeCancelled, nil
	}

	if len(job.Row) != rowFieldCount {
		// A wrong-width row is a pipeline defect, not user input:
		// it must fail the job, never land in the ledger.
		return "", fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRow, rowFieldCount, len(job.Row))
	}

	in := domain.RowInput{
		Name:  job.Row[0],
		Email: job.Row[1],
		CPF:   job.Row[2],
		City:  job.Row[3],
		State: job.Row[4],
	}
	cpfDigits := cpf.OnlyDigits(in.CPF)

	byEmail, err := s.employees.FindByEmail(ctx, job.UserID, in.Email)
	if err != nil {
		return "", fmt.Errorf("lookup by email: %w", err)
	}
	byCPF, err := s.employees.FindByCPF(ctx, job.UserID, cpfDigits)
	if err != nil {
		return "", fmt.Errorf("lookup by cpf: %w", err)
	}

	if byEmail != nil && byCPF != nil && byEmail.ID != byCPF.ID {
		errs := domain.ValidationErrors{}
		errs.Add(domain.ConflictKey, domain.ConflictMessage)
		return OutcomeRejected, s.reject(ctx, job, errs)
	}

	existing := byEmail
	if existing == nil {
		existing = byCPF
	}

	errs := domain.ValidateRow(in)
	if !errs.Empty() {
		return OutcomeRejected, s.reject(ctx, job, errs)
	}

	record := domain.Employee{
		UserID: job.UserID,
		Name:   in.Name,
		Email:  in.Email,
		CPF:    cpfDigits,
		City:   in.City,
		State:  in.State,
	}
	if existing != nil {
		record.ID = existing.ID
	}

	if err := s.employees.Upsert(ctx, record); err != nil {
		return "", fmt.Errorf("upsert employee: %w", err)
	}
	return OutcomeImported, nil
}

func (s *RegisterEmployee) reject(ctx context.Context, job domain.RegisterJob, errs domain.ValidationErrors) error {
	entry := domain.FailureEntry{
		UserID:  job.UserID,
		BatchID: job.BatchID,
		Kind:    domain.KindEmployeeBulkStore,
		Payload: domain.FailurePayload{
			Data:   job.Row,
			Errors: errs,
		},
	}
	if err := s.ledger.Append(ctx, entry); err != nil {
		return fmt.Errorf("append failure ledger: %w", err)
	}
	return nil
}
