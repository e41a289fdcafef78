package employee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/mohammadpnp/employee-registry/internal/domain/employee"
)

type BulkHistoryInput struct {
	UserID  uuid.UUID
	BatchID uuid.UUID
	Page    Page
}

type BulkHistoryEntry struct {
	ID        uuid.UUID               `json:"id"`
	BatchID   uuid.UUID               `json:"batch_id"`
	Data      []string                `json:"data"`
	Errors    domain.ValidationErrors `json:"errors"`
	CreatedAt time.Time               `json:"created_at"`
}

type BatchMeta struct {
	ID          uuid.UUID  `json:"id"`
	TotalJobs   int64      `json:"total_jobs"`
	PendingJobs int64      `json:"pending_jobs"`
	FailedJobs  int64      `json:"failed_jobs"`
	Cancelled   bool       `json:"cancelled"`
	SettledAt   *time.Time `json:"settled_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type BulkHistoryOutput struct {
	Data  []BulkHistoryEntry `json:"data"`
	Meta  PageMeta           `json:"meta"`
	Batch BatchMeta          `json:"batch"`
}

type BulkHistory interface {
	Execute(ctx context.Context, in BulkHistoryInput) (BulkHistoryOutput, error)
}

type ledgerPager interface {
	PageByBatch(ctx context.Context, userID, batchID uuid.UUID, offset, limit int) ([]domain.FailureEntry, error)
}

type batchFinder interface {
	Find(ctx context.Context, batchID uuid.UUID) (*domain.Batch, error)
}

type bulkHistory struct {
	ledger  ledgerPager
	batches batchFinder
}

func NewBulkHistory(ledger ledgerPager, batches batchFinder) BulkHistory {
	return &bulkHistory{ledger: ledger, batches: batches}
}

func (uc *bulkHistory) Execute(ctx context.Context, in BulkHistoryInput) (BulkHistoryOutput, error) {
	batch, err := uc.batches.Find(ctx, in.BatchID)
	if err != nil {
		if errors.Is(err, domain.ErrBatchNotFound) {
			return BulkHistoryOutput{}, ErrBatchNotFound
		}
		return BulkHistoryOutput{}, fmt.Errorf("find batch: %w", err)
	}
	if batch.UserID != in.UserID {
		return BulkHistoryOutput{}, ErrBatchNotFound
	}

	limit := in.Page.Limit()
	entries, err := uc.ledger.PageByBatch(ctx, in.UserID, in.BatchID, in.Page.Offset(), limit+1)
	if err != nil {
		return BulkHistoryOutput{}, fmt.Errorf("page failure ledger: %w", err)
	}

	hasMore := len(entries) > limit
	if hasMore {
		entries = entries[:limit]
	}

	out := BulkHistoryOutput{
		Data: make([]BulkHistoryEntry, 0, len(entries)),
		Meta: PageMeta{
			CurrentPage: in.Page.normalized().Number,
			PerPage:     limit,
			HasMore:     hasMore,
		},
		Batch: BatchMeta{
			ID:          batch.ID,
			TotalJobs:   batch.TotalJobs,
			PendingJobs: batch.PendingJobs,
			FailedJobs:  batch.FailedJobs,
			Cancelled:   batch.Cancelled,
			SettledAt:   batch.SettledAt,
			CreatedAt:   batch.CreatedAt,
		},
	}
	for _, entry := range entries {
		out.Data = append(out.Data, BulkHistoryEntry{
			ID:        entry.ID,
			BatchID:   entry.BatchID,
			Data:      entry.Payload.Data,
			Errors:    entry.Payload.Errors,
			CreatedAt: entry.CreatedAt,
		})
	}
	return out, nil
}
