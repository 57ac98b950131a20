package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/contacthub/contacts-api/internal/core/domain"
	"github.com/contacthub/contacts-api/internal/core/ports"
)

type tokenClaims struct {
	Purpose     string `json:"purpose"`
	Fingerprint string `json:"fpr,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed tokens tagged with a purpose.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

func (s *TokenService) Issue(subject string, purpose ports.TokenPurpose, ttl time.Duration) (string, error) {
	return s.sign(subject, purpose, ttl, "")
}

// IssueReset binds the token to the password hash current at issue time.
// Once the password changes, the fingerprint no longer matches and the token
// stops verifying, which makes reset tokens effectively single-use without
// server-side state.
func (s *TokenService) IssueReset(subject, passwordHash string, ttl time.Duration) (string, error) {
	return s.sign(subject, ports.PurposePasswordReset, ttl, passwordFingerprint(passwordHash))
}

func (s *TokenService) sign(subject string, purpose ports.TokenPurpose, ttl time.Duration, fpr string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Purpose:     string(purpose),
		Fingerprint: fpr,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature, expiry and purpose, and returns the token payload.
func (s *TokenService) Verify(token string, purpose ports.TokenPurpose) (ports.TokenPayload, error) {
	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return ports.TokenPayload{}, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return ports.TokenPayload{}, domain.ErrTokenMalformed
		default:
			return ports.TokenPayload{}, domain.ErrTokenInvalid
		}
	}
	if !tkn.Valid || claims.Purpose != string(purpose) {
		return ports.TokenPayload{}, domain.ErrTokenInvalid
	}
	return ports.TokenPayload{Subject: claims.Subject, Fingerprint: claims.Fingerprint}, nil
}

// passwordFingerprint derives a short, non-reversible marker from a password
// hash. Reset tokens carry it so they can be tied to one specific password.
func passwordFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}
