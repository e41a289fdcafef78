package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/mohammadpnp/employee-registry/internal/domain/employee"
)

// BatchRepository is the durable job queue and its batch aggregate.
// Pending counts live in a batch row and are moved atomically with the
// job status transitions, so workers in other processes see the same
// lifecycle. The settle signal is the UPDATE that flips settled_at
// under its IS NULL guard: it can succeed for exactly one caller.
//
// A batch is born enqueueing: until Release flips that flag, reaching
// zero pending jobs never settles it. Workers draining an early chunk
// faster than the orchestrator can stream the next one would otherwise
// settle the batch with rows still on their way in.
type BatchRepository struct {
	pool *pgxpool.Pool
}

func NewBatchRepository(pool *pgxpool.Pool) *BatchRepository {
	return &BatchRepository{pool: pool}
}

func (r *BatchRepository) Create(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`INSERT INTO import_batches (user_id) VALUES ($1) RETURNING id`,
		userID,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create import batch: %w", err)
	}
	return id, nil
}

// AddJobs enqueues one job per row and bumps the batch counters in the
// same transaction, so a chunk becomes visible all-or-nothing.
func (r *BatchRepository) AddJobs(ctx context.Context, batchID, userID uuid.UUID, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	jobRows := make([][]any, 0, len(rows))
	for _, row := range rows {
		payload, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshal job row: %w", err)
		}
		jobRows = append(jobRows, []any{batchID, userID, payload})
	}

	if _, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"import_jobs"},
		[]string{"batch_id", "user_id", "row_data"},
		pgx.CopyFromRows(jobRows),
	); err != nil {
		return fmt.Errorf("copy import jobs: %w", err)
	}

	if _, err := tx.Exec(ctx, `
UPDATE import_batches
SET total_jobs = total_jobs + $2,
    pending_jobs = pending_jobs + $2,
    updated_at = NOW()
WHERE id = $1
`, batchID, len(rows)); err != nil {
		return fmt.Errorf("bump batch counters: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit add jobs: %w", err)
	}
	return nil
}

// Release closes the batch to new jobs. It reports the settle signal
// when every job enqueued so far already reached a terminal state --
// which covers the empty batch, where no worker will ever report one.
// Releasing an already-released batch is a no-op.
func (r *BatchRepository) Release(ctx context.Context, batchID uuid.UUID) (bool, error) {
	var settled bool
	err := r.pool.QueryRow(ctx, `
UPDATE import_batches
SET enqueueing = FALSE,
    settled_at = CASE WHEN pending_jobs = 0 THEN NOW() ELSE settled_at END,
    updated_at = NOW()
WHERE id = $1 AND enqueueing
RETURNING pending_jobs = 0
`, batchID).Scan(&settled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("release batch: %w", err)
	}
	return settled, nil
}

// ClaimNext leases one runnable job: queued, or running with an
// expired lease (its worker died). Returns nil when the queue is
// empty.
func (r *BatchRepository) ClaimNext(ctx context.Context, leaseDuration time.Duration) (*domain.RegisterJob, error) {
	var (
		job     domain.RegisterJob
		payload []byte
	)
	err := r.pool.QueryRow(ctx, `
UPDATE import_jobs
SET status = 'running',
    attempts = attempts + 1,
    lease_expires_at = NOW() + make_interval(secs => $1),
    updated_at = NOW()
WHERE id = (
    SELECT id FROM import_jobs
    WHERE status = 'queued'
       OR (status = 'running' AND lease_expires_at < NOW())
    ORDER BY created_at
    FOR UPDATE SKIP LOCKED
    LIMIT 1
)
RETURNING id, batch_id, user_id, row_data, attempts, max_attempts
`, leaseDuration.Seconds()).Scan(&job.ID, &job.BatchID, &job.UserID, &payload, &job.Attempts, &job.MaxAttempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("claim import job: %w", err)
	}

	if err := json.Unmarshal(payload, &job.Row); err != nil {
		return nil, fmt.Errorf("unmarshal job row %s: %w", job.ID, err)
	}
	return &job, nil
}

// Complete marks the job done and reports whether this was the batch's
// last pending job.
func (r *BatchRepository) Complete(ctx context.Context, jobID uuid.UUID) (bool, error) {
	return r.finish(ctx, jobID, "completed", "")
}

// Fail marks the job permanently failed and reports the settle signal
// like Complete: a dead job still counts toward batch completion.
func (r *BatchRepository) Fail(ctx context.Context, jobID uuid.UUID, reason string) (bool, error) {
	return r.finish(ctx, jobID, "failed", reason)
}

func (r *BatchRepository) finish(ctx context.Context, jobID uuid.UUID, status, reason string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var batchID uuid.UUID
	err = tx.QueryRow(ctx, `
UPDATE import_jobs
SET status = $2,
    last_error = NULLIF($3, ''),
    updated_at = NOW()
WHERE id = $1 AND status = 'running'
RETURNING batch_id
`, jobID, status, reason).Scan(&batchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Already terminal (a second worker finished a re-leased
			// copy first); nothing left to settle.
			return false, nil
		}
		return false, fmt.Errorf("finish import job: %w", err)
	}

	var pending int64
	err = tx.QueryRow(ctx, `
UPDATE import_batches
SET pending_jobs = pending_jobs - 1,
    failed_jobs = failed_jobs + CASE WHEN $2 THEN 1 ELSE 0 END,
    updated_at = NOW()
WHERE id = $1
RETURNING pending_jobs
`, batchID, status == "failed").Scan(&pending)
	if err != nil {
		return false, fmt.Errorf("decrement pending jobs: %w", err)
	}

	settled := false
	if pending == 0 {
		tag, err := tx.Exec(ctx,
			`UPDATE import_batches SET settled_at = NOW() WHERE id = $1 AND NOT enqueueing AND settled_at IS NULL`,
			batchID,
		)
		if err != nil {
			return false, fmt.Errorf("settle batch: %w", err)
		}
		settled = tag.RowsAffected() == 1
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit finish job: %w", err)
	}
	return settled, nil
}

func (r *BatchRepository) Requeue(ctx context.Context, jobID uuid.UUID, reason string) error {
	_, err := r.pool.Exec(ctx, `
UPDATE import_jobs
SET status = 'queued',
    last_error = NULLIF($2, ''),
    lease_expires_at = NULL,
    updated_at = NOW()
WHERE id = $1 AND status = 'running'
`, jobID, reason)
	if err != nil {
		return fmt.Errorf("requeue import job: %w", err)
	}
	return nil
}

func (r *BatchRepository) Cancelled(ctx context.Context, batchID uuid.UUID) (bool, error) {
	var cancelled bool
	err := r.pool.QueryRow(ctx,
		`SELECT cancelled FROM import_batches WHERE id = $1`,
		batchID,
	).Scan(&cancelled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrBatchNotFound
		}
		return false, fmt.Errorf("read batch cancellation: %w", err)
	}
	return cancelled, nil
}

func (r *BatchRepository) Cancel(ctx context.Context, batchID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE import_batches SET cancelled = TRUE, updated_at = NOW() WHERE id = $1`,
		batchID,
	)
	if err != nil {
		return fmt.Errorf("cancel batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}

func (r *BatchRepository) Find(ctx context.Context, batchID uuid.UUID) (*domain.Batch, error) {
	var batch domain.Batch
	err := r.pool.QueryRow(ctx, `
SELECT id, user_id, total_jobs, pending_jobs, failed_jobs, cancelled, settled_at, created_at
FROM import_batches
WHERE id = $1
`, batchID).Scan(
		&batch.ID, &batch.UserID, &batch.TotalJobs, &batch.PendingJobs,
		&batch.FailedJobs, &batch.Cancelled, &batch.SettledAt, &batch.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("find batch: %w", err)
	}
	return &batch, nil
}
