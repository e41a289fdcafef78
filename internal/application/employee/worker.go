package employee

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domain "github.com/mohammadpnp/employee-registry/internal/domain/employee"
	"github.com/mohammadpnp/employee-registry/internal/infrastructure/metrics"
)

type workerJobRepo interface {
	ClaimNext(ctx context.Context, leaseDuration time.Duration) (*domain.RegisterJob, error)
	Complete(ctx context.Context, jobID uuid.UUID) (bool, error)
	Requeue(ctx context.Context, jobID uuid.UUID, reason string) error
	Fail(ctx context.Context, jobID uuid.UUID, reason string) (bool, error)
}

type jobExecutor interface {
	Execute(ctx context.Context, job domain.RegisterJob) (Outcome, error)
}

type ImportWorkerConfig struct {
	Workers       int
	PollInterval  time.Duration
	LeaseDuration time.Duration
}

// ImportWorker drains the durable job queue: each claimed job is one
// CSV row. Terminal transitions (Complete/Fail) report whether they
// settled the whole batch; the settle signal fires the reporter
// exactly once per batch.
type ImportWorker struct {
	repo     workerJobRepo
	executor jobExecutor
	reporter SettledNotifier
	cfg      ImportWorkerConfig

	once sync.Once
}

func NewImportWorker(repo workerJobRepo, executor jobExecutor, reporter SettledNotifier, cfg ImportWorkerConfig) *ImportWorker {
	if cfg.Workers <= 0 {
		cfg.Workers = 10
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if cfg.LeaseDuration <= 0 {
		cfg.LeaseDuration = 60 * time.Second
	}

	return &ImportWorker{
		repo:     repo,
		executor: executor,
		reporter: reporter,
		cfg:      cfg,
	}
}

func (w *ImportWorker) Start(ctx context.Context) {
	w.once.Do(func() {
		for i := 0; i < w.cfg.Workers; i++ {
			go w.workerLoop(ctx)
		}
	})
}

func (w *ImportWorker) workerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.repo.ClaimNext(ctx, w.cfg.LeaseDuration)
		if err != nil {
			logrus.WithError(err).Error("claim next register job")
			if !sleepWithContext(ctx, w.cfg.PollInterval) {
				return
			}
			continue
		}

		if job == nil {
			if !sleepWithContext(ctx, w.cfg.PollInterval) {
				return
			}
			continue
		}

		if err := w.ProcessJob(ctx, *job); err != nil {
			logrus.WithError(err).WithField("job_id", job.ID).Error("process register job")
		}
	}
}

// ProcessJob runs one claimed job to a terminal state. Validation and
// conflict rejections are a successful outcome here: the job's work is
// to record them. Only infrastructure errors travel the requeue/fail
// path.
func (w *ImportWorker) ProcessJob(ctx context.Context, job domain.RegisterJob) error {
	outcome, err := w.executor.Execute(ctx, job)
	if err != nil {
		return w.onProcessingError(ctx, job, err)
	}

	metrics.RowsProcessed.WithLabelValues(string(outcome)).Inc()

	settled, err := w.repo.Complete(ctx, job.ID)
	if err != nil {
		return w.onProcessingError(ctx, job, err)
	}
	if settled {
		w.settle(ctx, job)
	}
	return nil
}

func (w *ImportWorker) onProcessingError(ctx context.Context, job domain.RegisterJob, err error) error {
	reason := truncateReason(err.Error())
	if job.Attempts < job.MaxAttempts {
		if requeueErr := w.repo.Requeue(ctx, job.ID, reason); requeueErr != nil {
			return fmt.Errorf("%v; requeue failed: %w", err, requeueErr)
		}
		return err
	}

	settled, failErr := w.repo.Fail(ctx, job.ID, reason)
	if failErr != nil {
		return fmt.Errorf("%v; fail update failed: %w", err, failErr)
	}
	if settled {
		w.settle(ctx, job)
	}
	return err
}

func (w *ImportWorker) settle(ctx context.Context, job domain.RegisterJob) {
	metrics.BatchesSettled.Inc()
	w.reporter.BatchSettled(ctx, job.UserID, job.BatchID)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func truncateReason(reason string) string {
	const maxLen = 1000
	reason = strings.TrimSpace(reason)
	if len(reason) <= maxLen {
		return reason
	}
	return reason[:maxLen]
}
