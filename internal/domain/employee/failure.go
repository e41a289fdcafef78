package employee

import (
	"time"

	"github.com/google/uuid"
)

// KindEmployeeBulkStore tags ledger entries produced by the employee
// bulk import pipeline.
const KindEmployeeBulkStore = "employee_bulk_store"

// FailurePayload is the stored record of one rejected row: the raw
// positional values and the validation errors that rejected them.
type FailurePayload struct {
	Data   []string         `json:"data"`
	Errors ValidationErrors `json:"errors"`
}

// FailureEntry is one append-only ledger row, correlated to a batch
// and scoped to the uploading user.
type FailureEntry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	BatchID   uuid.UUID
	Kind      string
	Payload   FailurePayload
	CreatedAt time.Time
}
