package lookup

import "errors"

var (
	// ErrConfiguration reports a pattern whose length does not match the key
	// space, negative depths, or out-of-range weights.
	ErrConfiguration = errors.New("configuration error")

	// ErrInsufficientSeed reports seed actions too short to pad a history
	// window that real play has not yet filled.
	ErrInsufficientSeed = errors.New("insufficient seed actions")

	// ErrKeyMismatch reports a key whose window lengths do not match the
	// table's depths, or a key absent from the table.
	ErrKeyMismatch = errors.New("key not found")
)
