package ports

import (
	"context"

	"github.com/contacthub/contacts-api/internal/core/domain"
)

// UserRepository defines persistence for user records. All mutations are
// atomic at the single-record level.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Create inserts a new user and returns it with ID and CreatedAt set.
	// Returns domain.ErrEmailTaken when the email already exists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	SetConfirmed(ctx context.Context, id int64) error
	SetPassword(ctx context.Context, id int64, passwordHash string) error
	SetAvatar(ctx context.Context, id int64, url string) error
	// SetRole is administrative only; it is never reachable from a
	// self-service endpoint.
	SetRole(ctx context.Context, id int64, role string) error
}
