package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/glamora/backoffice-system/internal/core/domain"
	"github.com/glamora/backoffice-system/internal/core/ports"
)

type stubBootstrap struct {
	err   error
	calls int
}

func (s *stubBootstrap) EnsureDefaultAdmin(context.Context) error {
	s.calls++
	return s.err
}

// newActorContext builds a context carrying the claims the Auth middleware
// would have injected.
func newActorContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	c, rec := newTestContext(t, method, path, body)
	c.Set("user_id", "actor-1")
	c.Set("email", "boss@x.com")
	c.Set("role", string(domain.RoleSuperAdmin))
	return c, rec
}

func TestUserHandler_Create_Success(t *testing.T) {
	users := &stubUserService{
		createFn: func(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
			if name != "Jane" || email != "jane@x.com" || password != "secret1" || role != domain.RoleContentWriter {
				t.Fatalf("unexpected args: %s %s %s %s", name, email, password, role)
			}
			return &domain.User{ID: "u1", Name: name, Email: email, Role: role, CreatedAt: time.Now().UTC()}, nil
		},
	}
	handler := NewUserHandler(users, &stubBootstrap{}, zerolog.Nop())

	c, rec := newActorContext(t, http.MethodPost, "/users",
		`{"name":"Jane","email":"jane@x.com","password":"secret1","role":"content_writer"}`)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["role"] != "content_writer" {
		t.Fatalf("unexpected role: %v", resp["role"])
	}
	if _, present := resp["password_hash"]; present {
		t.Fatalf("password_hash leaked into the create response")
	}
}

func TestUserHandler_Create_Conflict(t *testing.T) {
	users := &stubUserService{
		createFn: func(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	handler := NewUserHandler(users, &stubBootstrap{}, zerolog.Nop())

	c, rec := newActorContext(t, http.MethodPost, "/users",
		`{"name":"Jane","email":"jane@x.com","password":"secret1","role":"content_writer"}`)
	_ = handler.Create(c)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestUserHandler_Create_InvalidRole(t *testing.T) {
	users := &stubUserService{
		createFn: func(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
			t.Fatalf("service must not be called on a validation failure")
			return nil, nil
		},
	}
	handler := NewUserHandler(users, &stubBootstrap{}, zerolog.Nop())

	c, rec := newActorContext(t, http.MethodPost, "/users",
		`{"name":"Jane","email":"jane@x.com","password":"secret1","role":"intern"}`)
	_ = handler.Create(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_Create_MissingClaims(t *testing.T) {
	handler := NewUserHandler(&stubUserService{}, &stubBootstrap{}, zerolog.Nop())

	// No claims injected: the route was reached without the Auth middleware.
	c, _ := newTestContext(t, http.MethodPost, "/users", `{}`)
	err := handler.Create(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestUserHandler_Update_EmptyRequest(t *testing.T) {
	users := &stubUserService{
		updateFn: func(ctx context.Context, id string, input ports.UserUpdateInput) (*domain.User, error) {
			t.Fatalf("service must not be called for an empty update")
			return nil, nil
		},
	}
	handler := NewUserHandler(users, &stubBootstrap{}, zerolog.Nop())

	c, rec := newActorContext(t, http.MethodPut, "/users/u1", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	_ = handler.Update(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_Update_RoleOutsideRestrictedSet(t *testing.T) {
	handler := NewUserHandler(&stubUserService{}, &stubBootstrap{}, zerolog.Nop())

	// content_writer is creatable but not assignable by update; the schema
	// rejects it before the service runs.
	c, rec := newActorContext(t, http.MethodPut, "/users/u1", `{"role":"content_writer"}`)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	_ = handler.Update(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_Update_Success(t *testing.T) {
	users := &stubUserService{
		updateFn: func(ctx context.Context, id string, input ports.UserUpdateInput) (*domain.User, error) {
			if id != "u1" || input.Role == nil || *input.Role != domain.RoleAdmin {
				t.Fatalf("unexpected args: %s %+v", id, input)
			}
			return &domain.User{ID: id, Name: "Jane", Email: "jane@x.com", Role: domain.RoleAdmin}, nil
		},
	}
	handler := NewUserHandler(users, &stubBootstrap{}, zerolog.Nop())

	c, rec := newActorContext(t, http.MethodPut, "/users/u1", `{"role":"admin"}`)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Update_NotFound(t *testing.T) {
	users := &stubUserService{
		updateFn: func(ctx context.Context, id string, input ports.UserUpdateInput) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	handler := NewUserHandler(users, &stubBootstrap{}, zerolog.Nop())

	c, rec := newActorContext(t, http.MethodPut, "/users/missing", `{"role":"admin"}`)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	_ = handler.Update(c)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUserHandler_ResetPassword(t *testing.T) {
	users := &stubUserService{
		resetFn: func(ctx context.Context, id, newPassword string) (*domain.User, error) {
			if id != "u1" || newPassword != "secret2" {
				t.Fatalf("unexpected args: %s %s", id, newPassword)
			}
			return &domain.User{ID: id, Name: "Jane", Email: "jane@x.com", Role: domain.RoleAdmin}, nil
		},
	}
	handler := NewUserHandler(users, &stubBootstrap{}, zerolog.Nop())

	c, rec := newActorContext(t, http.MethodPost, "/users/u1/reset-password", `{"new_password":"secret2"}`)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := handler.ResetPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_ResetPassword_ShortPassword(t *testing.T) {
	users := &stubUserService{
		resetFn: func(ctx context.Context, id, newPassword string) (*domain.User, error) {
			t.Fatalf("service must not be called on a validation failure")
			return nil, nil
		},
	}
	handler := NewUserHandler(users, &stubBootstrap{}, zerolog.Nop())

	c, rec := newActorContext(t, http.MethodPost, "/users/u1/reset-password", `{"new_password":"tiny"}`)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	_ = handler.ResetPassword(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	users := &stubUserService{
		removeFn: func(ctx context.Context, id string) error {
			if id == "u1" {
				return nil
			}
			return domain.ErrUserNotFound
		},
	}
	handler := NewUserHandler(users, &stubBootstrap{}, zerolog.Nop())

	c, rec := newActorContext(t, http.MethodDelete, "/users/u1", "")
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, rec = newActorContext(t, http.MethodDelete, "/users/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	_ = handler.Delete(c)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUserHandler_List(t *testing.T) {
	users := &stubUserService{
		listFn: func(ctx context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{ID: "u1", Name: "A", Email: "a@x.com", Role: domain.RoleAdmin},
				{ID: "u2", Name: "B", Email: "b@x.com", Role: domain.RoleContentWriter},
			}, nil
		},
	}
	handler := NewUserHandler(users, &stubBootstrap{}, zerolog.Nop())

	c, rec := newActorContext(t, http.MethodGet, "/users", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 users, got %d", len(resp))
	}
	for _, u := range resp {
		if _, present := u["password_hash"]; present {
			t.Fatalf("password_hash leaked into the list response")
		}
	}
}

func TestUserHandler_Bootstrap(t *testing.T) {
	boot := &stubBootstrap{}
	handler := NewUserHandler(&stubUserService{}, boot, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/admin/bootstrap", "")
	if err := handler.Bootstrap(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if boot.calls != 1 {
		t.Fatalf("bootstrap invoked %d times, want 1", boot.calls)
	}
}
