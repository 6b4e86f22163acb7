package appliance

import "errors"

var (
	// ErrCorruptSnapshot is wrapped by Persistence implementations when the
	// stored collection cannot be decoded. Restore recovers from it.
	ErrCorruptSnapshot = errors.New("appliance: corrupt snapshot")
)
