package decode

import "errors"

// Fatal error classes for one occurrence. Schema gaps (unknown message or
// field numbers, declared/schema type disagreements) are never errors;
// they are logged and decoding continues with synthesized identities.
var (
	// ErrConfiguration marks impossible catalog or schema setups: unknown
	// protocol types, out-of-range base type indexes, chained alternative
	// selectors.
	ErrConfiguration = errors.New("configuration error")

	// ErrCorruption marks wire data the schemas cannot account for:
	// non-divisible array sizes, unresolved alternative selectors with no
	// default, a missing mandatory identity field. The stream should be
	// considered unreliable.
	ErrCorruption = errors.New("corrupt message")
)
