package employee_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	app "github.com/mohammadpnp/employee-registry/internal/application/employee"
)

type fakeBlobStorage struct {
	content  string
	storeErr error
	openErr  error

	storedName  string
	deletedPath string
}

func (f *fakeBlobStorage) Store(ctx context.Context, name string, r io.Reader) (string, error) {
	if f.storeErr != nil {
		return "", f.storeErr
	}
	f.storedName = name
	return "tmp/" + name, nil
}

func (f *fakeBlobStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

func (f *fakeBlobStorage) Delete(ctx context.Context, path string) error {
	f.deletedPath = path
	return nil
}

type fakeLedgerCleaner struct {
	clearedBeforeJobs bool
	cleared           int
	batches           *fakeBatchCreator
	err               error
}

func (f *fakeLedgerCleaner) ClearForUser(ctx context.Context, userID uuid.UUID, kind string) error {
	if f.err != nil {
		return f.err
	}
	f.cleared++
	if f.batches != nil && len(f.batches.chunks) == 0 {
		f.clearedBeforeJobs = true
	}
	return nil
}

// fakeBatchCreator mirrors the queue's settle rules: a batch holds a
// pending counter, stays open while enqueueing, and settles exactly
// once when the counter is zero after release. drainEachChunk plays the
// part of workers fast enough to finish a whole chunk before the next
// AddJobs lands.
type fakeBatchCreator struct {
	id         uuid.UUID
	createErr  error
	addErr     error
	releaseErr error

	drainEachChunk bool

	chunks       [][][]string
	pending      int
	enqueueing   bool
	settles      int
	jobsAtSettle int
}

func (f *fakeBatchCreator) Create(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	f.enqueueing = true
	return f.id, nil
}

func (f *fakeBatchCreator) AddJobs(ctx context.Context, batchID, userID uuid.UUID, rows [][]string) error {
	if f.addErr != nil {
		return f.addErr
	}
	copied := make([][]string, len(rows))
	copy(copied, rows)
	f.chunks = append(f.chunks, copied)
	f.pending += len(rows)
	if f.drainEachChunk {
		f.pending -= len(rows)
		f.maybeSettle()
	}
	return nil
}

func (f *fakeBatchCreator) Release(ctx context.Context, batchID uuid.UUID) (bool, error) {
	if f.releaseErr != nil {
		return false, f.releaseErr
	}
	f.enqueueing = false
	return f.maybeSettle(), nil
}

func (f *fakeBatchCreator) maybeSettle() bool {
	if f.enqueueing || f.pending != 0 || f.settles > 0 {
		return false
	}
	f.settles++
	f.jobsAtSettle = f.enqueuedJobs()
	return true
}

func (f *fakeBatchCreator) enqueuedJobs() int {
	total := 0
	for _, chunk := range f.chunks {
		total += len(chunk)
	}
	return total
}

type fakeNotifier struct {
	settled []uuid.UUID
}

func (f *fakeNotifier) BatchSettled(ctx context.Context, userID, batchID uuid.UUID) {
	f.settled = append(f.settled, batchID)
}

func bulkCSV(rows int) string {
	var b strings.Builder
	b.WriteString("name,email,cpf,city,state\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "Person %d,person%d@example.com,52998224725,Austin,TX\n", i, i)
	}
	return b.String()
}

func TestStartBulkStoreChunksRows(t *testing.T) {
	t.Parallel()

	storage := &fakeBlobStorage{content: bulkCSV(120)}
	batches := &fakeBatchCreator{id: uuid.New()}
	ledger := &fakeLedgerCleaner{batches: batches}
	notifier := &fakeNotifier{}

	uc := app.NewStartBulkStore(storage, ledger, batches, notifier)

	out, err := uc.Execute(context.Background(), app.StartBulkStoreInput{
		UserID:   uuid.New(),
		Filename: "employees.csv",
		File:     strings.NewReader("unused by fake"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if out.BatchID != batches.id.String() {
		t.Fatalf("expected batch id %s, got %s", batches.id, out.BatchID)
	}
	if out.Message != "Bulk store send successfully" {
		t.Fatalf("unexpected message %q", out.Message)
	}

	if len(batches.chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(batches.chunks))
	}
	if len(batches.chunks[0]) != 50 || len(batches.chunks[1]) != 50 || len(batches.chunks[2]) != 20 {
		t.Fatalf("unexpected chunk sizes: %d, %d, %d", len(batches.chunks[0]), len(batches.chunks[1]), len(batches.chunks[2]))
	}

	if !ledger.clearedBeforeJobs {
		t.Fatal("expected the ledger cleared before any job is enqueued")
	}
	if storage.deletedPath == "" {
		t.Fatal("expected the uploaded file deleted after enqueue")
	}
	if len(notifier.settled) != 0 {
		t.Fatal("a non-empty batch must settle through the queue, not here")
	}
}

func TestStartBulkStoreHoldsBatchOpenAcrossChunks(t *testing.T) {
	t.Parallel()

	// Workers finish every job of a chunk before the next chunk is
	// enqueued. The batch must not settle on those early pending->0
	// transitions: one settle, after all 60 rows are in.
	storage := &fakeBlobStorage{content: bulkCSV(60)}
	batches := &fakeBatchCreator{id: uuid.New(), drainEachChunk: true}
	notifier := &fakeNotifier{}

	uc := app.NewStartBulkStore(storage, &fakeLedgerCleaner{}, batches, notifier)

	_, err := uc.Execute(context.Background(), app.StartBulkStoreInput{
		UserID:   uuid.New(),
		Filename: "employees.csv",
		File:     strings.NewReader(""),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(batches.chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(batches.chunks))
	}
	if batches.settles != 1 {
		t.Fatalf("expected exactly one settle, got %d", batches.settles)
	}
	if batches.jobsAtSettle != 60 {
		t.Fatalf("batch settled with only %d of 60 jobs enqueued", batches.jobsAtSettle)
	}
	if len(notifier.settled) != 1 || notifier.settled[0] != batches.id {
		t.Fatalf("expected one settle notification for the batch, got %v", notifier.settled)
	}
}

func TestStartBulkStoreReleaseFailure(t *testing.T) {
	t.Parallel()

	storage := &fakeBlobStorage{content: bulkCSV(3)}
	batches := &fakeBatchCreator{id: uuid.New(), releaseErr: errors.New("connection lost")}
	notifier := &fakeNotifier{}

	uc := app.NewStartBulkStore(storage, &fakeLedgerCleaner{}, batches, notifier)

	_, err := uc.Execute(context.Background(), app.StartBulkStoreInput{
		UserID:   uuid.New(),
		Filename: "employees.csv",
		File:     strings.NewReader(""),
	})
	if err == nil {
		t.Fatal("expected an error when the batch cannot be released")
	}
	if len(notifier.settled) != 0 {
		t.Fatal("an unreleased batch must not report a settle")
	}
	if storage.deletedPath == "" {
		t.Fatal("expected the stored file deleted")
	}
}

func TestStartBulkStoreEmptyFileSettlesImmediately(t *testing.T) {
	t.Parallel()

	storage := &fakeBlobStorage{content: "name,email,cpf,city,state\n"}
	batches := &fakeBatchCreator{id: uuid.New()}
	notifier := &fakeNotifier{}

	uc := app.NewStartBulkStore(storage, &fakeLedgerCleaner{}, batches, notifier)

	_, err := uc.Execute(context.Background(), app.StartBulkStoreInput{
		UserID:   uuid.New(),
		Filename: "empty.csv",
		File:     strings.NewReader(""),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(batches.chunks) != 0 {
		t.Fatalf("expected no jobs, got %d chunks", len(batches.chunks))
	}
	if len(notifier.settled) != 1 || notifier.settled[0] != batches.id {
		t.Fatalf("expected one direct settle for the batch, got %v", notifier.settled)
	}
}

func TestStartBulkStoreUnreadableUploadIsEmptyImport(t *testing.T) {
	t.Parallel()

	storage := &fakeBlobStorage{openErr: errors.New("gone")}
	batches := &fakeBatchCreator{id: uuid.New()}
	notifier := &fakeNotifier{}

	uc := app.NewStartBulkStore(storage, &fakeLedgerCleaner{}, batches, notifier)

	_, err := uc.Execute(context.Background(), app.StartBulkStoreInput{
		UserID:   uuid.New(),
		Filename: "employees.csv",
		File:     strings.NewReader(""),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(batches.chunks) != 0 {
		t.Fatal("expected no jobs enqueued")
	}
	if storage.deletedPath == "" {
		t.Fatal("expected the stored file deleted")
	}
	if len(notifier.settled) != 1 {
		t.Fatalf("expected one settle, got %d", len(notifier.settled))
	}
}

func TestStartBulkStoreStoreFailure(t *testing.T) {
	t.Parallel()

	storage := &fakeBlobStorage{storeErr: errors.New("disk full")}
	uc := app.NewStartBulkStore(storage, &fakeLedgerCleaner{}, &fakeBatchCreator{}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), app.StartBulkStoreInput{
		UserID:   uuid.New(),
		Filename: "employees.csv",
		File:     strings.NewReader(""),
	})
	if !errors.Is(err, app.ErrStoreUpload) {
		t.Fatalf("expected ErrStoreUpload, got %v", err)
	}
}

func TestStartBulkStoreEnqueueFailure(t *testing.T) {
	t.Parallel()

	storage := &fakeBlobStorage{content: bulkCSV(3)}
	batches := &fakeBatchCreator{id: uuid.New(), addErr: errors.New("insert failed")}
	uc := app.NewStartBulkStore(storage, &fakeLedgerCleaner{}, batches, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), app.StartBulkStoreInput{
		UserID:   uuid.New(),
		Filename: "employees.csv",
		File:     strings.NewReader(""),
	})
	if !errors.Is(err, app.ErrEnqueueJobs) {
		t.Fatalf("expected ErrEnqueueJobs, got %v", err)
	}
	if storage.deletedPath == "" {
		t.Fatal("expected the stored file deleted even on failure")
	}
}
