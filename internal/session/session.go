package session

import "errors"

var (
	// ErrKeyNotFound is returned when a key is absent from the store
	ErrKeyNotFound = errors.New("session key not found")
	// ErrIncompleteCredentials is returned when login is attempted with an
	// empty token or tenant
	ErrIncompleteCredentials = errors.New("token and tenant must both be set")
)

// Session is the authenticated state restored for one browser. Token and
// TenantID are both present or both empty; a partial pair never leaves the
// manager.
type Session struct {
	ID       string
	Token    string
	TenantID string
}

// Authenticated reports whether the session carries valid credentials
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != "" && s.TenantID != ""
}

// PendingPlan is a paid plan selected before the user authenticated. It is
// consumed exactly once after the first successful login.
type PendingPlan struct {
	Plan  string `json:"plan"`
	Cycle string `json:"cycle"` // monthly or yearly
}
