package loadtest

import "errors"

// Sentinel errors reported by Run.
var (
	ErrUnhealthy    = errors.New("service unhealthy")
	ErrUnexpected   = errors.New("unexpected response")
	ErrInconsistent = errors.New("inconsistent result")
	ErrNoParameters = errors.New("service exposes no shareable parameters")
)
