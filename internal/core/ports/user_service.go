package ports

import (
	"context"

	"github.com/contacthub/contacts-api/internal/core/domain"
)

// AvatarUpload carries an uploaded avatar image.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UserService serves user lookups through the cache and user profile updates.
type UserService interface {
	CurrentUser(ctx context.Context, id int64) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID int64, upload AvatarUpload) (*domain.User, error)
}
