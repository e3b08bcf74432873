package errors

import (
	"errors"
	"fmt"
)

// Typed failure modes surfaced by the auth session service and its
// collaborators. Callers match with errors.Is; the server layer maps each
// sentinel to a stable HTTP status.
var (
	// ErrInvalidArgument indicates malformed or missing required fields at
	// the credential-builder or registration-validation stage.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAuthentication indicates the token service rejected a grant
	// (bad credentials, expired or invalid refresh token, bad client).
	ErrAuthentication = errors.New("authentication failed")

	// ErrUserNotFound indicates a post-grant directory lookup failed. This
	// is a server-consistency error: the token service and the user
	// directory disagree about the same identity.
	ErrUserNotFound = errors.New("user not found")

	// ErrUnauthenticated indicates an operation that requires an active
	// session was called without one.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrDuplicateUser indicates a registration email collision.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrUpstreamUnavailable indicates a downstream transport failure
	// (network, timeout) distinct from a credential rejection.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")

	// ErrNotFound is the generic missing-record error for non-user
	// resources (posts, comments, reset tokens).
	ErrNotFound = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
