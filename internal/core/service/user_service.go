package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/contacthub/contacts-api/internal/core/domain"
	"github.com/contacthub/contacts-api/internal/core/ports"
)

// allowedAvatarTypes is the accepted upload whitelist.
var allowedAvatarTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
}

// UserService resolves users through the cache and handles profile updates.
type UserService struct {
	repo    ports.UserRepository
	cache   ports.UserCache
	storage ports.AvatarStorage
	log     zerolog.Logger
}

func NewUserService(repo ports.UserRepository, cache ports.UserCache, storage ports.AvatarStorage, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, cache: cache, storage: storage, log: log}
}

// CurrentUser returns the user by id, serving from the cache when possible
// and populating it on a miss.
func (s *UserService) CurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", id).Msg("user cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, user); err != nil {
		s.log.Warn().Err(err).Int64("user_id", id).Msg("user cache write failed")
	}
	return user, nil
}

// UpdateAvatar uploads the image to object storage and persists the
// resulting URL on the user record.
func (s *UserService) UpdateAvatar(ctx context.Context, userID int64, upload ports.AvatarUpload) (*domain.User, error) {
	if _, ok := allowedAvatarTypes[upload.ContentType]; !ok {
		return nil, domain.ErrUnsupportedAvatar
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.Upload(ctx, upload.ContentType, upload.Data)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	if err := s.repo.SetAvatar(ctx, user.ID, url); err != nil {
		return nil, fmt.Errorf("update avatar: %w", err)
	}
	if err := s.cache.Invalidate(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to invalidate user cache")
	}

	updated := *user
	updated.Avatar = url
	return &updated, nil
}
