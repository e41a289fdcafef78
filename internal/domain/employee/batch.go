package employee

import (
	"time"

	"github.com/google/uuid"
)

// Batch tracks one bulk upload: the jobs fanned out from its rows, a
// cooperative cancellation flag and an exactly-once settle timestamp.
type Batch struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	TotalJobs   int64
	PendingJobs int64
	FailedJobs  int64
	Cancelled   bool
	SettledAt   *time.Time
	CreatedAt   time.Time
}

// RegisterJob is the unit of import work: one CSV row bound to a batch.
type RegisterJob struct {
	ID          uuid.UUID
	BatchID     uuid.UUID
	UserID      uuid.UUID
	Row         []string
	Attempts    int
	MaxAttempts int
}
