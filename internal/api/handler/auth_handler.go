package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/glamora/backoffice-system/internal/api/metrics"
	"github.com/glamora/backoffice-system/internal/core/domain"
	"github.com/glamora/backoffice-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	userService ports.UserService
}

func NewAuthHandler(authService ports.AuthService, userService ports.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// Login verifies credentials and returns the session material.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	result, err := h.authService.Login(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			// Unknown identifier and wrong password share this branch.
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		case errors.Is(err, domain.ErrInvalidArgument):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "identifier and password are required"})
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
			return err
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Token:     result.Token,
		SessionID: result.SessionID,
		User:      toUserResponse(result.User),
	})
}

// ChangePassword lets a user replace their own password after proving the
// current one.
//
// @Summary      Change own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      changePasswordRequest  true  "Password change request"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	err := h.userService.ChangeOwnPassword(c.Request().Context(), req.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			metrics.LifecycleErrorsTotal.WithLabelValues("change_password", "unauthorized").Inc()
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "current password is incorrect"})
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.LifecycleErrorsTotal.WithLabelValues("change_password", "not_found").Inc()
			return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
		case errors.Is(err, domain.ErrInvalidArgument):
			metrics.LifecycleErrorsTotal.WithLabelValues("change_password", "invalid_argument").Inc()
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "new password must be at least 6 characters"})
		default:
			metrics.LifecycleErrorsTotal.WithLabelValues("change_password", "internal").Inc()
			return err
		}
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

// Verify evaluates a held session against a view's required roles. The
// response is withheld until the guard's latency floor elapses, so callers
// see the same timing whether or not the session was found.
//
// @Summary      Verify session authorization
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyRequest  true  "Session and required roles"
// @Success      200   {object}  verifyResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/verify [post]
func (h *AuthHandler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	required := make([]domain.Role, 0, len(req.RequiredRoles))
	for _, r := range req.RequiredRoles {
		required = append(required, domain.Role(r))
	}

	outcome, err := h.authService.VerifySession(c.Request().Context(), req.SessionID, required)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, verifyResponse{Outcome: outcome.String()})
}

// Logout discards the cached session profile.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      logoutRequest  true  "Session to discard"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	if err := h.authService.Logout(c.Request().Context(), req.SessionID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}
