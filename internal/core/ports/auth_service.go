package ports

import (
	"context"

	"github.com/contacthub/contacts-api/internal/core/domain"
)

// AuthService orchestrates registration, email confirmation, login and
// password reset.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// ConfirmEmail is idempotent; alreadyConfirmed reports whether the user
	// was confirmed before this call.
	ConfirmEmail(ctx context.Context, token string) (alreadyConfirmed bool, err error)
	// ResendConfirmation never reveals whether the email is registered.
	ResendConfirmation(ctx context.Context, email string) (alreadyConfirmed bool, err error)
	// RequestPasswordReset never reveals whether the email is registered.
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}
