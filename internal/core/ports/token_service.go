package ports

import "time"

// TokenPurpose tags a token with the single flow it is valid for. A token
// presented to an endpoint expecting a different purpose is rejected.
type TokenPurpose string

const (
	PurposeAccess        TokenPurpose = "access"
	PurposeEmailConfirm  TokenPurpose = "email-confirm"
	PurposePasswordReset TokenPurpose = "password-reset"
)

// TokenPayload is the verified content of a token.
type TokenPayload struct {
	Subject string
	// Fingerprint is only set on password-reset tokens; it binds the token
	// to the password hash current at issue time.
	Fingerprint string
}

// TokenService issues and verifies signed, stateless, time-limited tokens.
type TokenService interface {
	Issue(subject string, purpose TokenPurpose, ttl time.Duration) (string, error)
	// IssueReset issues a password-reset token bound to the given password
	// hash, making the token single-use: once the password changes the
	// token no longer verifies.
	IssueReset(subject, passwordHash string, ttl time.Duration) (string, error)
	// Verify returns domain.ErrTokenExpired, domain.ErrTokenInvalid or
	// domain.ErrTokenMalformed on failure.
	Verify(token string, purpose TokenPurpose) (TokenPayload, error)
}
