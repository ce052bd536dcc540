package codec

import "errors"

// Encode errors signal a caller bug; Parse errors wrap ErrMalformed.
var (
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrNoCode           = errors.New("parameter has no share code")
	ErrMissingArgument  = errors.New("missing argument")
	ErrInvalidValue     = errors.New("invalid value")
	ErrMalformed        = errors.New("malformed configuration string")
)

// failureReason is the metric label for a Parse error.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownParameter):
		return "unknown_code"
	case errors.Is(err, ErrMissingArgument):
		return "missing_argument"
	case errors.Is(err, ErrInvalidValue):
		return "invalid_value"
	}
	return "malformed"
}
