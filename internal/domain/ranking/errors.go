package ranking

import "errors"

// Sentinel errors returned by Ranker.
var (
	ErrUnknownParameter  = errors.New("unknown parameter")
	ErrInvalidImportance = errors.New("importance must not be negative")
)
