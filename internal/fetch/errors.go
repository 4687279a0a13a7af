package fetch

import "errors"

// Failure kinds for remote metadata lookups. Callers recover from all
// of them through the cache's stale-or-empty fallback; none is fatal
// for a single entry.
var (
	// ErrNotFound indicates the identifier is unknown to the service.
	ErrNotFound = errors.New("identifier not found")

	// ErrNetwork indicates the service could not be reached, including
	// request timeouts.
	ErrNetwork = errors.New("network error")

	// ErrInvalidResponse indicates the service answered with a payload
	// we could not interpret.
	ErrInvalidResponse = errors.New("malformed response")
)

// IsNotFound reports whether err is a not-found lookup failure.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsNetwork reports whether err is a connectivity or timeout failure.
func IsNetwork(err error) bool { return errors.Is(err, ErrNetwork) }

// IsInvalidResponse reports whether err is a malformed-payload failure.
func IsInvalidResponse(err error) bool { return errors.Is(err, ErrInvalidResponse) }
