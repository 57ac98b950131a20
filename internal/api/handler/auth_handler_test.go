package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/contacthub/contacts-api/internal/core/domain"
)

type stubAuthService struct {
	registerUser *domain.User
	registerErr  error

	loginToken string
	loginUser  *domain.User
	loginErr   error

	confirmAlready bool
	confirmErr     error

	resendAlready bool
	resendErr     error

	resetRequestErr error
	resetErr        error

	resetRequests []string
}

func (s *stubAuthService) Register(_ context.Context, _, _, _ string) (*domain.User, error) {
	return s.registerUser, s.registerErr
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (string, *domain.User, error) {
	return s.loginToken, s.loginUser, s.loginErr
}

func (s *stubAuthService) ConfirmEmail(_ context.Context, _ string) (bool, error) {
	return s.confirmAlready, s.confirmErr
}

func (s *stubAuthService) ResendConfirmation(_ context.Context, _ string) (bool, error) {
	return s.resendAlready, s.resendErr
}

func (s *stubAuthService) RequestPasswordReset(_ context.Context, email string) error {
	s.resetRequests = append(s.resetRequests, email)
	return s.resetRequestErr
}

func (s *stubAuthService) ResetPassword(_ context.Context, _, _ string) error {
	return s.resetErr
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.Message
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{registerUser: &domain.User{
		ID:    1,
		Email: "alice@example.com",
		Name:  "Alice",
		Role:  domain.RoleUser,
	}}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/register",
		`{"email":"alice@example.com","password":"pw123456","name":"Alice"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Email != "alice@example.com" || resp.Confirmed {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response must not contain password material")
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{registerErr: domain.ErrEmailTaken})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/register",
		`{"email":"alice@example.com","password":"pw123456","name":"Alice"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/register",
		`{"email":"not-an-email","password":"pw","name":"A"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAuthService{
		loginToken: "signed.jwt.token",
		loginUser:  &domain.User{ID: 1, Email: "alice@example.com"},
	}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"pw123456"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken != "signed.jwt.token" || resp.TokenType != "bearer" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{loginErr: domain.ErrInvalidCredentials})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"wrong-pass"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Unconfirmed(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{loginErr: domain.ErrEmailNotConfirmed})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"pw123456"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_ConfirmEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{confirmAlready: false})

	c, rec := newTestContext(t, http.MethodGet, "/", "")
	c.SetPath("/api/auth/confirmed_email/:token")
	c.SetParamNames("token")
	c.SetParamValues("some-token")

	if err := h.ConfirmEmail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "Email confirmed" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestAuthHandler_ConfirmEmail_Already(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{confirmAlready: true})

	c, rec := newTestContext(t, http.MethodGet, "/", "")
	c.SetPath("/api/auth/confirmed_email/:token")
	c.SetParamNames("token")
	c.SetParamValues("some-token")

	if err := h.ConfirmEmail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := decodeMessage(t, rec); got != "Your email is already confirmed" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestAuthHandler_ConfirmEmail_BadToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{confirmErr: domain.ErrTokenExpired})

	c, rec := newTestContext(t, http.MethodGet, "/", "")
	c.SetPath("/api/auth/confirmed_email/:token")
	c.SetParamNames("token")
	c.SetParamValues("expired-token")

	if err := h.ConfirmEmail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_RequestPasswordReset_UniformResponse(t *testing.T) {
	// The body must be identical whether or not the address is registered.
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	c1, rec1 := newTestContext(t, http.MethodPost, "/api/auth/request-password-reset",
		`{"email":"known@example.com"}`)
	if err := h.RequestPasswordReset(c1); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	c2, rec2 := newTestContext(t, http.MethodPost, "/api/auth/request-password-reset",
		`{"email":"unknown@example.com"}`)
	if err := h.RequestPasswordReset(c2); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec1.Code != http.StatusOK || rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 for both, got %d and %d", rec1.Code, rec2.Code)
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("responses differ: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if len(svc.resetRequests) != 2 {
		t.Fatalf("expected both requests forwarded to the service")
	}
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/reset-password",
		`{"token":"reset-token","password":"newpw123"}`)

	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeMessage(t, rec); got != "Password successfully changed" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestAuthHandler_ResetPassword_BadToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{resetErr: domain.ErrTokenInvalid})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/reset-password",
		`{"token":"used-token","password":"newpw123"}`)

	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
