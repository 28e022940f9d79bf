package domain

import (
	"errors"
	"time"
)

// Role is the closed set of permission tiers a back-office user can hold.
type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RoleAdmin          Role = "admin"
	RoleProductManager Role = "product_manager"
	RoleContentWriter  Role = "content_writer"
	RoleEnquiryHandler Role = "enquiry_handler"
)

// allRoles is the full enumeration accepted at user creation.
var allRoles = map[Role]struct{}{
	RoleSuperAdmin:     {},
	RoleAdmin:          {},
	RoleProductManager: {},
	RoleContentWriter:  {},
	RoleEnquiryHandler: {},
}

// assignableRoles is the restricted set accepted when reassigning the role of
// an existing user: only the two administrative tiers.
var assignableRoles = map[Role]struct{}{
	RoleSuperAdmin: {},
	RoleAdmin:      {},
}

// Valid reports whether r is a member of the role enumeration.
func (r Role) Valid() bool {
	_, ok := allRoles[r]
	return ok
}

// Assignable reports whether r may be set by a role update on an existing user.
func (r Role) Assignable() bool {
	_, ok := assignableRoles[r]
	return ok
}

var ErrInvalidArgument = errors.New("invalid argument")
var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidCredentials is returned by login for both an unknown identifier
// and a wrong password. Both branches must share this single value so a
// caller cannot tell which one failed (account-enumeration resistance).
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models an administrative back-office account.
//
// PasswordHash never crosses the API boundary: it is excluded from JSON and
// services strip it before handing a record to callers.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Sanitized returns a copy of u with the password hash removed.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}
