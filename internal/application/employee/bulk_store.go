package employee

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domain "github.com/mohammadpnp/employee-registry/internal/domain/employee"
)

const chunkSize = 50

type StartBulkStoreInput struct {
	UserID   uuid.UUID
	Filename string
	File     io.Reader
}

type StartBulkStoreOutput struct {
	Message string `json:"message"`
	BatchID string `json:"batch_id"`
}

type StartBulkStore interface {
	Execute(ctx context.Context, in StartBulkStoreInput) (StartBulkStoreOutput, error)
}

// BlobStorage is the uploaded-file store: the orchestrator only ever
// writes, re-opens and deletes.
type BlobStorage interface {
	Store(ctx context.Context, name string, r io.Reader) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}

type ledgerCleaner interface {
	ClearForUser(ctx context.Context, userID uuid.UUID, kind string) error
}

// batchCreator is the enqueue side of the job queue. A created batch
// stays open until Release, so draining every job of an early chunk
// cannot settle it while later chunks are still being enqueued; Release
// reports the settle signal itself when all jobs (or none) are already
// terminal.
type batchCreator interface {
	Create(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	AddJobs(ctx context.Context, batchID, userID uuid.UUID, rows [][]string) error
	Release(ctx context.Context, batchID uuid.UUID) (bool, error)
}

// SettledNotifier receives the exactly-once all-jobs-settled signal.
type SettledNotifier interface {
	BatchSettled(ctx context.Context, userID, batchID uuid.UUID)
}

type startBulkStore struct {
	storage  BlobStorage
	ledger   ledgerCleaner
	batches  batchCreator
	reporter SettledNotifier
}

func NewStartBulkStore(storage BlobStorage, ledger ledgerCleaner, batches batchCreator, reporter SettledNotifier) StartBulkStore {
	return &startBulkStore{
		storage:  storage,
		ledger:   ledger,
		batches:  batches,
		reporter: reporter,
	}
}

// Execute runs the whole fan-out: persist the upload, clear the
// previous run's ledger for this user, stream rows, enqueue one job
// per row in chunks bound to a fresh batch, then delete the upload and
// release the batch for settlement. Job execution is asynchronous; the
// returned batch id is the caller's correlation handle.
func (uc *startBulkStore) Execute(ctx context.Context, in StartBulkStoreInput) (StartBulkStoreOutput, error) {
	path, err := uc.storage.Store(ctx, in.Filename, in.File)
	if err != nil {
		return StartBulkStoreOutput{}, fmt.Errorf("%w: %v", ErrStoreUpload, err)
	}

	// The clear must land before any job of the new batch can write,
	// so it is sequenced here rather than inside the jobs.
	if err := uc.ledger.ClearForUser(ctx, in.UserID, domain.KindEmployeeBulkStore); err != nil {
		return StartBulkStoreOutput{}, fmt.Errorf("clear failure ledger: %w", err)
	}

	batchID, err := uc.batches.Create(ctx, in.UserID)
	if err != nil {
		return StartBulkStoreOutput{}, fmt.Errorf("%w: %v", ErrCreateBatch, err)
	}

	err = uc.enqueueRows(ctx, batchID, in.UserID, path)

	if deleteErr := uc.storage.Delete(ctx, path); deleteErr != nil {
		logrus.WithError(deleteErr).WithField("path", path).Warn("delete uploaded file")
	}

	// Close the batch even when enqueueing failed part-way: the jobs
	// that did land must still be able to settle and report. Release
	// hands back the settle signal for the empty batch and for jobs
	// the workers drained before we got here.
	settled, releaseErr := uc.batches.Release(ctx, batchID)
	if releaseErr != nil {
		logrus.WithError(releaseErr).WithField("batch_id", batchID).Error("release import batch")
		if err == nil {
			err = fmt.Errorf("release batch: %w", releaseErr)
		}
	}
	if settled {
		uc.reporter.BatchSettled(ctx, in.UserID, batchID)
	}

	if err != nil {
		return StartBulkStoreOutput{}, err
	}

	return StartBulkStoreOutput{
		Message: "Bulk store send successfully",
		BatchID: batchID.String(),
	}, nil
}

func (uc *startBulkStore) enqueueRows(ctx context.Context, batchID, userID uuid.UUID, path string) error {
	reader, err := uc.storage.Open(ctx, path)
	if err != nil {
		// Unreadable source counts as an empty import, not a failure.
		logrus.WithError(err).WithField("path", path).Warn("open uploaded file")
		return nil
	}
	defer reader.Close()

	stream := NewRowStream(reader)

	chunk := make([][]string, 0, chunkSize)

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		if err := uc.batches.AddJobs(ctx, batchID, userID, chunk); err != nil {
			return fmt.Errorf("%w: %v", ErrEnqueueJobs, err)
		}
		chunk = chunk[:0]
		return nil
	}

	for {
		row, ok := stream.Next()
		if !ok {
			break
		}
		chunk = append(chunk, row)
		if len(chunk) >= chunkSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	return flush()
}
