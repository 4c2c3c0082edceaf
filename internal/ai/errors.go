package ai

import "errors"

// Provider failures are mapped onto these by GuardedProvider so callers can
// branch with errors.Is regardless of the backend.
var (
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	ErrInferenceTimeout    = errors.New("ai inference timeout")
	ErrInvalidResponse     = errors.New("ai provider returned empty or invalid text")
	ErrRateLimited         = errors.New("ai request rate limit exceeded")
)
