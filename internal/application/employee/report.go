package employee

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domain "github.com/mohammadpnp/employee-registry/internal/domain/employee"
	userdomain "github.com/mohammadpnp/employee-registry/internal/domain/user"
	"github.com/mohammadpnp/employee-registry/internal/infrastructure/metrics"
)

// errorJoinSeparator joins the flattened error messages inside the
// report's errors column.
const errorJoinSeparator = " | "

var reportHeader = []string{"name", "email", "cpf", "city", "state", "errors"}

// Attachment is a file carried by a notification.
type Attachment struct {
	Filename string
	MIME     string
	Content  []byte
}

// Mail is one outbound notification. Delivery is best-effort.
type Mail struct {
	To         string
	Subject    string
	Body       string
	Attachment *Attachment
}

type MailSender interface {
	Send(ctx context.Context, mail Mail) error
}

type ledgerReader interface {
	ListByBatch(ctx context.Context, userID, batchID uuid.UUID) ([]domain.FailureEntry, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*userdomain.User, error)
}

// BatchReporter turns the all-jobs-settled signal into the uploading
// user's notification: plain success when the ledger is clean, or a
// partial-success mail attaching a CSV of every rejected row. Nothing
// here can fail the batch; delivery problems are logged and dropped.
type BatchReporter struct {
	ledger ledgerReader
	users  userFinder
	mailer MailSender
}

func NewBatchReporter(ledger ledgerReader, users userFinder, mailer MailSender) *BatchReporter {
	return &BatchReporter{
		ledger: ledger,
		users:  users,
		mailer: mailer,
	}
}

func (r *BatchReporter) BatchSettled(ctx context.Context, userID, batchID uuid.UUID) {
	log := logrus.WithFields(logrus.Fields{"user_id": userID, "batch_id": batchID})

	account, err := r.users.FindByID(ctx, userID)
	if err != nil {
		log.WithError(err).Error("load user for batch report")
		return
	}

	entries, err := r.ledger.ListByBatch(ctx, userID, batchID)
	if err != nil {
		log.WithError(err).Error("read failure ledger for batch report")
		return
	}

	mail := Mail{To: account.Email}
	kind := "success"
	if len(entries) == 0 {
		mail.Subject = "Your CSV was processed successfully"
		mail.Body = fmt.Sprintf("Hello %s,\n\nEvery row of your upload was imported.\n\nBatch: %s\n", account.Name, batchID)
	} else {
		kind = "partial"
		mail.Subject = "Your file was processed with partial success"
		mail.Body = fmt.Sprintf("Hello %s,\n\n%d row(s) of your upload could not be imported. The attached report lists each rejected row and why.\n\nBatch: %s\n", account.Name, len(entries), batchID)
		mail.Attachment = &Attachment{
			Filename: fmt.Sprintf("bulk-import-failures-%s.csv", batchID),
			MIME:     "text/csv",
			Content:  BuildFailureReport(entries),
		}
	}

	if err := r.mailer.Send(ctx, mail); err != nil {
		log.WithError(err).Error("send batch report notification")
		return
	}
	metrics.NotificationsSent.WithLabelValues(kind).Inc()
}

// BuildFailureReport renders ledger entries as a semicolon-delimited
// CSV prefixed with a UTF-8 byte-order mark, one row per rejected
// import row, with every error message flattened into the trailing
// errors column.
func BuildFailureReport(entries []domain.FailureEntry) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)
	w.Comma = ';'

	w.Write(reportHeader)
	for _, entry := range entries {
		row := make([]string, len(reportHeader))
		for i := 0; i < len(reportHeader)-1; i++ {
			if i < len(entry.Payload.Data) {
				row[i] = entry.Payload.Data[i]
			}
		}
		row[len(reportHeader)-1] = strings.Join(flattenErrors(entry.Payload.Errors), errorJoinSeparator)
		w.Write(row)
	}
	w.Flush()

	return buf.Bytes()
}

// flattenErrors reduces the field→messages map to an ordered list of
// leaf strings, fields sorted for a deterministic report.
func flattenErrors(errs domain.ValidationErrors) []string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var leaves []string
	for _, field := range fields {
		for _, message := range errs[field] {
			leaves = append(leaves, fmt.Sprintf("%s: %s", field, message))
		}
	}
	return leaves
}
