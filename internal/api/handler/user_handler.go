package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/glamora/backoffice-system/internal/api/metrics"
	"github.com/glamora/backoffice-system/internal/core/domain"
	"github.com/glamora/backoffice-system/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
	bootstrap   ports.BootstrapService
	log         zerolog.Logger
}

func NewUserHandler(userService ports.UserService, bootstrap ports.BootstrapService, log zerolog.Logger) *UserHandler {
	return &UserHandler{userService: userService, bootstrap: bootstrap, log: log}
}

// List returns every user, password hashes stripped.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      500  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Create adds a new user to the directory.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	actor, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.LifecycleErrorsTotal.WithLabelValues("create", "invalid_argument").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	user, err := h.userService.Create(c.Request().Context(), req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			metrics.LifecycleErrorsTotal.WithLabelValues("create", "conflict").Inc()
			return c.JSON(http.StatusConflict, errorResponse{Error: "email already registered"})
		case errors.Is(err, domain.ErrInvalidArgument):
			metrics.LifecycleErrorsTotal.WithLabelValues("create", "invalid_argument").Inc()
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid user details"})
		default:
			metrics.LifecycleErrorsTotal.WithLabelValues("create", "internal").Inc()
			return err
		}
	}

	metrics.UsersCreatedTotal.WithLabelValues(string(user.Role)).Inc()
	h.log.Info().Str("actor_id", actor).Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user created")
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Update applies a combined role/password update to an existing user.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	actor, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.LifecycleErrorsTotal.WithLabelValues("update", "invalid_argument").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	if req.Role == nil && req.NewPassword == nil {
		metrics.LifecycleErrorsTotal.WithLabelValues("update", "invalid_argument").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "at least one of role or new_password is required"})
	}

	input := ports.UserUpdateInput{NewPassword: req.NewPassword}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.userService.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.LifecycleErrorsTotal.WithLabelValues("update", "not_found").Inc()
			return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
		case errors.Is(err, domain.ErrInvalidArgument):
			metrics.LifecycleErrorsTotal.WithLabelValues("update", "invalid_argument").Inc()
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid update"})
		default:
			metrics.LifecycleErrorsTotal.WithLabelValues("update", "internal").Inc()
			return err
		}
	}

	h.log.Info().Str("actor_id", actor).Str("user_id", user.ID).Msg("user updated")
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// ResetPassword sets a new password for a user without proof of the current
// one. Restricted to the administrative tiers by the route's role gate.
//
// @Summary      Reset user password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "User id"
// @Param        body  body      resetPasswordRequest  true  "New password"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id}/reset-password [post]
func (h *UserHandler) ResetPassword(c echo.Context) error {
	actor, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.LifecycleErrorsTotal.WithLabelValues("reset_password", "invalid_argument").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	user, err := h.userService.ResetPassword(c.Request().Context(), c.Param("id"), req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.LifecycleErrorsTotal.WithLabelValues("reset_password", "not_found").Inc()
			return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
		case errors.Is(err, domain.ErrInvalidArgument):
			metrics.LifecycleErrorsTotal.WithLabelValues("reset_password", "invalid_argument").Inc()
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid password"})
		default:
			metrics.LifecycleErrorsTotal.WithLabelValues("reset_password", "internal").Inc()
			return err
		}
	}

	h.log.Info().Str("actor_id", actor).Str("user_id", user.ID).Msg("password reset")
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete removes a user from the directory.
//
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if err := h.userService.Remove(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.LifecycleErrorsTotal.WithLabelValues("delete", "not_found").Inc()
			return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
		default:
			metrics.LifecycleErrorsTotal.WithLabelValues("delete", "internal").Inc()
			return err
		}
	}

	h.log.Info().Str("actor_id", actor).Str("user_id", id).Msg("user deleted")
	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted"})
}

// Bootstrap seeds the default administrator when the directory is empty.
//
// @Summary      Bootstrap default administrator
// @Tags         admin
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      500  {object}  errorResponse
// @Router       /admin/bootstrap [post]
func (h *UserHandler) Bootstrap(c echo.Context) error {
	if err := h.bootstrap.EnsureDefaultAdmin(c.Request().Context()); err != nil {
		metrics.BootstrapRunsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.BootstrapRunsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "directory initialized"})
}
