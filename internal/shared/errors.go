package shared

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Catalog and playlist errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrRateLimited        = fmt.Errorf("rate limited")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistMutation   = fmt.Errorf("playlist mutation failed")
	ErrTrackNotFound      = fmt.Errorf("track not found")

	// Library errors
	ErrUnreadableFile = fmt.Errorf("unreadable file")
	ErrEmptyLibrary   = fmt.Errorf("no music files found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// IsTransient reports whether err is worth retrying: rate limits, flaky
// connections and upstream outages. Auth failures and cancellations are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrAuthFailed) || errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrTokenExpired) {
		return false
	}
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServiceUnavailable) || errors.Is(err, ErrAPIRequest)
}

// IsFatalAuth reports whether err should abort a run instead of being
// retried per-track.
func IsFatalAuth(err error) bool {
	return errors.Is(err, ErrAuthFailed) || errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrTokenExpired)
}
