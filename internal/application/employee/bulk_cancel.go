package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/mohammadpnp/employee-registry/internal/domain/employee"
)

type BulkCancelInput struct {
	UserID  uuid.UUID
	BatchID uuid.UUID
}

type BulkCancelOutput struct {
	Message string `json:"message"`
}

type BulkCancel interface {
	Execute(ctx context.Context, in BulkCancelInput) (BulkCancelOutput, error)
}

type batchCanceller interface {
	Find(ctx context.Context, batchID uuid.UUID) (*domain.Batch, error)
	Cancel(ctx context.Context, batchID uuid.UUID) error
}

type bulkCancel struct {
	batches batchCanceller
}

func NewBulkCancel(batches batchCanceller) BulkCancel {
	return &bulkCancel{batches: batches}
}

// Execute flips the batch's cancellation flag. Cancellation is
// cooperative: jobs already past their guard still run to completion,
// later ones short-circuit without touching the registry or the ledger.
func (uc *bulkCancel) Execute(ctx context.Context, in BulkCancelInput) (BulkCancelOutput, error) {
	batch, err := uc.batches.Find(ctx, in.BatchID)
	if err != nil {
		if errors.Is(err, domain.ErrBatchNotFound) {
			return BulkCancelOutput{}, ErrBatchNotFound
		}
		return BulkCancelOutput{}, fmt.Errorf("find batch: %w", err)
	}
	if batch.UserID != in.UserID {
		return BulkCancelOutput{}, ErrBatchNotFound
	}

	if err := uc.batches.Cancel(ctx, in.BatchID); err != nil {
		return BulkCancelOutput{}, fmt.Errorf("cancel batch: %w", err)
	}
	return BulkCancelOutput{Message: "Bulk store cancelled"}, nil
}
