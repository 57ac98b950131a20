package service

import (
	"errors"
	"testing"
	"time"

	"github.com/contacthub/contacts-api/internal/core/domain"
	"github.com/contacthub/contacts-api/internal/core/ports"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService("secret")

	token, err := svc.Issue("42", ports.PurposeAccess, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	payload, err := svc.Verify(token, ports.PurposeAccess)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if payload.Subject != "42" {
		t.Fatalf("expected subject 42, got %q", payload.Subject)
	}
}

func TestTokenService_PurposeMismatch(t *testing.T) {
	svc := NewTokenService("secret")

	token, err := svc.Issue("alice@example.com", ports.PurposeEmailConfirm, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.Verify(token, ports.PurposeAccess); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := svc.Verify(token, ports.PurposePasswordReset); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("secret")

	token, err := svc.Issue("42", ports.PurposeAccess, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.Verify(token, ports.PurposeAccess); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewTokenService("secret")

	if _, err := svc.Verify("not-a-token", ports.PurposeAccess); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").Issue("42", ports.PurposeAccess, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewTokenService("secret-b").Verify(token, ports.PurposeAccess); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_ResetFingerprint(t *testing.T) {
	svc := NewTokenService("secret")

	token, err := svc.IssueReset("alice@example.com", "hash-v1", time.Hour)
	if err != nil {
		t.Fatalf("issue reset: %v", err)
	}

	payload, err := svc.Verify(token, ports.PurposePasswordReset)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if payload.Fingerprint != passwordFingerprint("hash-v1") {
		t.Fatalf("fingerprint does not match the issuing hash")
	}
	if payload.Fingerprint == passwordFingerprint("hash-v2") {
		t.Fatalf("fingerprint should change with the password hash")
	}
}
