package ports

import "context"

// Mailer delivers transactional emails. Callers treat sends as
// fire-and-forget: failures are logged, never surfaced to the request that
// triggered them.
type Mailer interface {
	SendConfirmation(ctx context.Context, to, name, token string) error
	SendPasswordReset(ctx context.Context, to, name, token string) error
}
