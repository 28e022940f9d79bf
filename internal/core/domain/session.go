package domain

// SessionIndicator is the client-held marker of authentication state: an
// advisory boolean plus a cached copy of the profile returned at login.
//
// It is not a credential. It carries no signature and no expiry; whichever
// process holds it owns its lifecycle (written after a successful login,
// replaced wholesale, discarded at logout). The authorization guard reads it
// to decide routing, nothing more.
type SessionIndicator struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

// Role returns the cached role, or the empty string when no profile is cached.
func (s SessionIndicator) Role() Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// AuditAction classifies an entry in the authentication audit trail.
type AuditAction string

const (
	AuditLoginSucceeded AuditAction = "login_succeeded"
	AuditLoginFailed    AuditAction = "login_failed"
	AuditUserCreated    AuditAction = "user_created"
	AuditUserUpdated    AuditAction = "user_updated"
	AuditUserDeleted    AuditAction = "user_deleted"
	AuditPasswordChange AuditAction = "password_changed"
	AuditBootstrapRun   AuditAction = "bootstrap_run"
)
