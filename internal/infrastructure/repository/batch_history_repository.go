package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/mohammadpnp/employee-registry/internal/domain/employee"
	"github.com/mohammadpnp/employee-registry/internal/infrastructure/db/models"
)

// BatchHistoryRepository is the failure ledger: append-only entries,
// soft-deleted in bulk when a user starts a new import run.
type BatchHistoryRepository struct {
	db *gorm.DB
}

func NewBatchHistoryRepository(db *gorm.DB) *BatchHistoryRepository {
	return &BatchHistoryRepository{db: db}
}

func (r *BatchHistoryRepository) Append(ctx context.Context, entry domain.FailureEntry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("marshal failure payload: %w", err)
	}

	row := models.BatchHistory{
		UserID:  entry.UserID,
		BatchID: entry.BatchID,
		Kind:    entry.Kind,
		Data:    payload,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("append batch history: %w", err)
	}
	return nil
}

// ClearForUser soft-deletes this user's previous entries of the given
// kind. Other users' entries and other kinds are untouched.
func (r *BatchHistoryRepository) ClearForUser(ctx context.Context, userID uuid.UUID, kind string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, kind).
		Delete(&models.BatchHistory{}).Error
	if err != nil {
		return fmt.Errorf("clear batch history: %w", err)
	}
	return nil
}

func (r *BatchHistoryRepository) ListByBatch(ctx context.Context, userID, batchID uuid.UUID) ([]domain.FailureEntry, error) {
	return r.query(ctx, userID, batchID, -1, -1)
}

func (r *BatchHistoryRepository) PageByBatch(ctx context.Context, userID, batchID uuid.UUID, offset, limit int) ([]domain.FailureEntry, error) {
	return r.query(ctx, userID, batchID, offset, limit)
}

func (r *BatchHistoryRepository) query(ctx context.Context, userID, batchID uuid.UUID, offset, limit int) ([]domain.FailureEntry, error) {
	var rows []models.BatchHistory
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND batch_id = ?", userID, batchID).
		Order("created_at, id")
	if offset >= 0 {
		q = q.Offset(offset)
	}
	if limit >= 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list batch history: %w", err)
	}

	entries := make([]domain.FailureEntry, 0, len(rows))
	for _, row := range rows {
		var payload domain.FailurePayload
		if err := json.Unmarshal(row.Data, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal failure payload %s: %w", row.ID, err)
		}
		entries = append(entries, domain.FailureEntry{
			ID:        row.ID,
			UserID:    row.UserID,
			BatchID:   row.BatchID,
			Kind:      row.Kind,
			Payload:   payload,
			CreatedAt: row.CreatedAt,
		})
	}
	return entries, nil
}
