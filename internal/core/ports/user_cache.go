package ports

import (
	"context"

	"github.com/contacthub/contacts-api/internal/core/domain"
)

// UserCache is a read-through cache for user lookups keyed by user id.
// Get returns (nil, nil) on a miss. Entries expire on a TTL and are
// invalidated explicitly whenever the underlying user record mutates.
type UserCache interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Invalidate(ctx context.Context, id int64) error
}
