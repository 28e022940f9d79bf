package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse is the envelope for operations whose success payload is a
// confirmation message only.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Request / Response types ---

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type changePasswordRequest struct {
	UserID          string `json:"user_id"          validate:"required"`
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6"`
}

type logoutRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// verifyRequest asks whether the session behind session_id may enter a view
// guarded by required_roles. An empty required_roles set means any
// authenticated session passes.
type verifyRequest struct {
	SessionID     string   `json:"session_id"`
	RequiredRoles []string `json:"required_roles,omitempty" validate:"omitempty,dive,oneof=super_admin admin product_manager content_writer enquiry_handler"`
}

type verifyResponse struct {
	Outcome string `json:"outcome"`
}

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"required,oneof=super_admin admin product_manager content_writer enquiry_handler"`
}

// updateUserRequest is a combined role/password update. Both fields are
// optional but at least one must be present; role reassignment is limited to
// the administrative tiers.
type updateUserRequest struct {
	Role        *string `json:"role,omitempty"         validate:"omitempty,oneof=super_admin admin"`
	NewPassword *string `json:"new_password,omitempty" validate:"omitempty,min=6"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// userResponse is the transport shape of a user record. There is no
// password_hash field here on purpose: the JSON contract must never carry it.
type userResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

type loginResponse struct {
	Token     string        `json:"token"`
	SessionID string        `json:"session_id"`
	User      *userResponse `json:"user"`
}
