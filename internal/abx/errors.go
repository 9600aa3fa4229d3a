package abx

import (
	"errors"

	"abxkit/internal/stimuli"
)

var (
	// ErrInput reports insufficient or incompatible stimuli, or a malformed
	// trial table.
	ErrInput = errors.New("invalid abx input")
	// ErrFileIO reports unreadable input or unwritable output. It is the same
	// value stimuli.Discover wraps.
	ErrFileIO = stimuli.ErrFileIO
)
