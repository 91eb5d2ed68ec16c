// Package port defines the interfaces between the services and their
// collaborators so each side can be tested in isolation.
package port

import (
	"context"

	"github.com/eljumillano/deposit-reports-go/internal/domain"
)

// DepositsFetcher retrieves one day's raw deposit payload.
type DepositsFetcher interface {
	FetchDay(ctx context.Context, dayISO string) (domain.DepositsPayload, error)
}

// ArtifactDownloader fetches a pre-rendered report file to a local path.
// Implementations must leave a placeholder file at destPath on failure
// instead of returning an error to the job.
type ArtifactDownloader interface {
	Download(ctx context.Context, endpoint, dayISO, destPath string)
}

// ReportRenderer produces the local shortage report document.
type ReportRenderer interface {
	Render(path, dateISO string, rows []domain.DepositRecord) error
}

// Mailer delivers one message with optional attachments; send-or-error.
type Mailer interface {
	Send(subject, htmlBody string, to []string, attachments []string) error
}
