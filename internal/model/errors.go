package model

import "errors"

// ErrInvalidArgument is wrapped by every input validation failure so
// callers can tell bad input apart from runtime failures.
var ErrInvalidArgument = errors.New("invalid argument")
