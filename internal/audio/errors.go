package audio

import "errors"

// ErrFormatMismatch is returned when clips with different sample rates or
// channel counts are combined.
var ErrFormatMismatch = errors.New("audio format mismatch")
