package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contacthub/contacts-api/internal/api/metrics"
	"github.com/contacthub/contacts-api/internal/core/domain"
	"github.com/contacthub/contacts-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new, unconfirmed user account and triggers the
// confirmation email.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, errorResponse{Error: "email already registered"})
		}
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login authenticates a user and returns a bearer access token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		case errors.Is(err, domain.ErrEmailNotConfirmed):
			metrics.LoginsTotal.WithLabelValues("unconfirmed").Inc()
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "email not confirmed"})
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// ConfirmEmail consumes an email-confirmation token. Confirming twice is a
// no-op success.
//
// @Summary      Confirm email address
// @Tags         auth
// @Produce      json
// @Param        token  path      string  true  "Email confirmation token"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  errorResponse
// @Router       /api/auth/confirmed_email/{token} [get]
func (h *AuthHandler) ConfirmEmail(c echo.Context) error {
	already, err := h.authService.ConfirmEmail(c.Request().Context(), c.Param("token"))
	if err != nil {
		if isTokenError(err) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid or expired token"})
		}
		return err
	}

	if already {
		return c.JSON(http.StatusOK, messageResponse{Message: "Your email is already confirmed"})
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Email confirmed"})
}

// RequestEmail re-sends the confirmation email. The response never reveals
// whether the address is registered.
//
// @Summary      Resend confirmation email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Email address"
// @Success      200   {object}  messageResponse
// @Router       /api/auth/request_email [post]
func (h *AuthHandler) RequestEmail(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	already, err := h.authService.ResendConfirmation(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	if already {
		return c.JSON(http.StatusOK, messageResponse{Message: "Your email is already confirmed"})
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Check your email for confirmation"})
}

// RequestPasswordReset triggers the reset flow. The response is identical
// for registered and unregistered emails.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Email address"
// @Success      200   {object}  messageResponse
// @Router       /api/auth/request-password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	if err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{
		Message: "If your email is registered, you will receive password reset instructions",
	})
}

// ResetPassword consumes a reset token and sets the new password.
//
// @Summary      Reset password with a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		if isTokenError(err) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid or expired token"})
		}
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password successfully changed"})
}

func isTokenError(err error) bool {
	return errors.Is(err, domain.ErrTokenExpired) ||
		errors.Is(err, domain.ErrTokenInvalid) ||
		errors.Is(err, domain.ErrTokenMalformed)
}
