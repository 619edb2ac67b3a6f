package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrNoToken is a local precondition failure: an authenticated call was
	// attempted without a token. The request is never sent.
	ErrNoToken = errors.New("no authentication token present")

	// ErrSessionExpired maps a 401 on an authenticated call. Callers must
	// treat it as fatal for the session, not as a recoverable error.
	ErrSessionExpired = errors.New("session expired")
)

// APIError is a backend-rejected request. Detail carries the backend's
// human-readable message verbatim when the response body had one.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// AsAPIError unwraps err into an *APIError if possible
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
