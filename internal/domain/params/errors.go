package params

import "errors"

// Sentinel errors returned while building a catalog.
var (
	ErrDuplicateID       = errors.New("duplicate parameter id")
	ErrDuplicateCode     = errors.New("duplicate parameter code")
	ErrInvalidCode       = errors.New("invalid parameter code")
	ErrInvalidDefinition = errors.New("invalid parameter definition")
)
