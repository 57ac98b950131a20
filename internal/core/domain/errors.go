package domain

import "errors"

var (
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound is returned by lookups that match no user.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login responses never reveal which emails are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailNotConfirmed is returned by login when confirmation is enforced.
	ErrEmailNotConfirmed = errors.New("email not confirmed")

	// ErrForbidden is returned when an authenticated user lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrUnsupportedAvatar is returned for avatar uploads that are not an
	// accepted image format.
	ErrUnsupportedAvatar = errors.New("unsupported avatar format")

	// Token verification outcomes. Expired, invalid (bad signature or wrong
	// purpose) and malformed (unparseable) are distinct so call sites can
	// handle each exhaustively.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenMalformed = errors.New("token malformed")
)
