package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/contacthub/contacts-api/internal/core/domain"
	"github.com/contacthub/contacts-api/internal/core/ports"
)

const mailTimeout = 30 * time.Second

// AuthOptions carries the token lifetimes and login policy.
type AuthOptions struct {
	AccessTokenTTL  time.Duration
	ConfirmTokenTTL time.Duration
	ResetTokenTTL   time.Duration
	// RequireConfirmed rejects logins from users who have not confirmed
	// their email yet.
	RequireConfirmed bool
}

// AuthService implements registration, email confirmation, login and
// password reset.
type AuthService struct {
	repo   ports.UserRepository
	cache  ports.UserCache
	tokens ports.TokenService
	hasher *PasswordHasher
	mailer ports.Mailer
	opts   AuthOptions
	log    zerolog.Logger
}

func NewAuthService(
	repo ports.UserRepository,
	cache ports.UserCache,
	tokens ports.TokenService,
	hasher *PasswordHasher,
	mailer ports.Mailer,
	opts AuthOptions,
	log zerolog.Logger,
) *AuthService {
	if opts.AccessTokenTTL <= 0 {
		opts.AccessTokenTTL = time.Hour
	}
	if opts.ConfirmTokenTTL <= 0 {
		opts.ConfirmTokenTTL = 7 * 24 * time.Hour
	}
	if opts.ResetTokenTTL <= 0 {
		opts.ResetTokenTTL = time.Hour
	}
	return &AuthService{
		repo:   repo,
		cache:  cache,
		tokens: tokens,
		hasher: hasher,
		mailer: mailer,
		opts:   opts,
		log:    log,
	}
}

// Register creates an unconfirmed user and dispatches the confirmation email.
// New users always get the default role; roles are never self-assignable.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = normalizeEmail(email)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Confirmed:    false,
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.sendConfirmation(created)
	return created, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password yield the same error so responses never reveal which emails are
// registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.opts.RequireConfirmed && !user.Confirmed {
		return "", nil, domain.ErrEmailNotConfirmed
	}

	if err := s.cache.Set(ctx, user); err != nil {
		s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to cache user on login")
	}

	token, err := s.tokens.Issue(strconv.FormatInt(user.ID, 10), ports.PurposeAccess, s.opts.AccessTokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("issue access token: %w", err)
	}
	return token, user, nil
}

// ConfirmEmail marks the token's subject as confirmed. Confirming an already
// confirmed user is a no-op success.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (bool, error) {
	payload, err := s.tokens.Verify(token, ports.PurposeEmailConfirm)
	if err != nil {
		return false, err
	}

	user, err := s.repo.FindByEmail(ctx, payload.Subject)
	if err != nil {
		// The token was valid but its subject no longer resolves.
		return false, domain.ErrTokenInvalid
	}
	if user.Confirmed {
		return true, nil
	}

	if err := s.repo.SetConfirmed(ctx, user.ID); err != nil {
		return false, fmt.Errorf("confirm email: %w", err)
	}
	s.invalidate(ctx, user.ID)
	return false, nil
}

// ResendConfirmation re-sends the confirmation email when the address belongs
// to an unconfirmed user. The caller receives the same outcome for unknown
// addresses.
func (s *AuthService) ResendConfirmation(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return false, nil
	}
	if user.Confirmed {
		return true, nil
	}
	s.sendConfirmation(user)
	return false, nil
}

// RequestPasswordReset issues a reset token and mails it when the address
// belongs to a confirmed user. It succeeds regardless, so responses are
// identical for registered and unregistered emails.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil
	}
	if !user.Confirmed {
		s.log.Debug().Str("email", user.Email).Msg("reset requested for unconfirmed email, skipping")
		return nil
	}

	token, err := s.tokens.IssueReset(user.Email, user.PasswordHash, s.opts.ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, token); err != nil {
			s.log.Error().Err(err).Str("email", user.Email).Msg("password reset email failed")
		}
	}()
	return nil
}

// ResetPassword consumes a reset token and replaces the password. A token
// issued against a password that has since changed fails verification.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	payload, err := s.tokens.Verify(token, ports.PurposePasswordReset)
	if err != nil {
		return err
	}

	user, err := s.repo.FindByEmail(ctx, payload.Subject)
	if err != nil {
		return domain.ErrTokenInvalid
	}
	if payload.Fingerprint != passwordFingerprint(user.PasswordHash) {
		return domain.ErrTokenInvalid
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := s.repo.SetPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	s.invalidate(ctx, user.ID)
	return nil
}

// sendConfirmation issues a confirmation token and mails it without blocking
// the caller. Delivery failures are logged, never returned.
func (s *AuthService) sendConfirmation(user *domain.User) {
	token, err := s.tokens.Issue(user.Email, ports.PurposeEmailConfirm, s.opts.ConfirmTokenTTL)
	if err != nil {
		s.log.Error().Err(err).Str("email", user.Email).Msg("failed to issue confirmation token")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := s.mailer.SendConfirmation(ctx, user.Email, user.Name, token); err != nil {
			s.log.Error().Err(err).Str("email", user.Email).Msg("confirmation email failed")
		}
	}()
}

func (s *AuthService) invalidate(ctx context.Context, userID int64) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("failed to invalidate user cache")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
