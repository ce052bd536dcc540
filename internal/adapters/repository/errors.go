package repository

import "errors"

// Sentinel kinds for share store errors.
var (
	ErrNotFound      = errors.New("share not found")
	ErrInvalidLimit  = errors.New("invalid share limit")
	ErrInvalidShare  = errors.New("invalid share")
	ErrUnknownDriver = errors.New("unsupported share driver")
)
