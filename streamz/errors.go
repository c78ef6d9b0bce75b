package streamz

import (
	"errors"
	"fmt"
)

// Sentinel errors distinguishing the failure kinds callers need to branch on.
// The UI layer maps each of these to a user-facing message; this package
// performs no recovery beyond the credential-change logout and the
// cached-token short-circuit.
var (
	// ErrNoCredentials indicates an empty username or password.
	ErrNoCredentials = errors.New("no credentials configured")

	// ErrInvalidCredentials indicates the backend rejected the username/password pair.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrStreamUnavailable indicates the requested content cannot be played right now.
	ErrStreamUnavailable = errors.New("stream is unavailable")

	// ErrStreamGeoblocked indicates the backend refused playback for the current region.
	ErrStreamGeoblocked = errors.New("stream is not available in your region")

	// ErrNoPlayableStream indicates no variant matched the supported delivery format.
	ErrNoPlayableStream = errors.New("no playable stream found")

	// ErrMalformedKeyDescriptor indicates the DRM key construction contract was violated.
	ErrMalformedKeyDescriptor = errors.New("malformed license key descriptor")
)

// SubscriptionError indicates the account has no valid entitlement for the
// service, reported per login provider.
type SubscriptionError struct {
	Provider string
}

func (e *SubscriptionError) Error() string {
	if e.Provider == "" {
		return "no active subscription"
	}
	return fmt.Sprintf("no active subscription for provider %s", e.Provider)
}

// ProtocolError indicates an expected field was absent from an intermediate
// login page. The handshake scrapes exact response markup, so this is a
// contract break with the backend and not retryable without intervention.
type ProtocolError struct {
	Field string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("login protocol error: could not extract %q", e.Field)
}

// LoginError carries a backend-supplied code for login failures that do not
// map to a more specific kind.
type LoginError struct {
	Code string
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login failed with backend code %q", e.Code)
}

// HTTPError surfaces a non-specific transport failure with the status code attached.
type HTTPError struct {
	Status int
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Status, e.URL)
}
