package u64set

import "errors"

// Sentinel errors for the CORE and its bulk-operation layer. Callers are
// expected to compare with errors.Is, not to inspect error strings.
var (
	// ConfigError is returned by New when bucketCount is not a positive
	// power of two.
	ConfigError = errors.New("u64set: bucket count must be a positive power of two")

	// InputDomainError is returned by Add/Remove when the value does not
	// fit in the 62-bit domain [0, 2^62).
	InputDomainError = errors.New("u64set: value out of [0, 2^62) domain")

	// IteratorExhaustedError is returned by Iterator.Next when there is no
	// further element to return.
	IteratorExhaustedError = errors.New("u64set: iterator exhausted")

	// NoCurrentElementError is returned by Iterator.Remove when it is
	// called before any successful call to Next.
	NoCurrentElementError = errors.New("u64set: no current element to remove")

	// AlreadyRemovedError is returned by Iterator.Remove when the element
	// last returned by Next was already removed by a concurrent mutation.
	AlreadyRemovedError = errors.New("u64set: element already removed")
)

// internalInvariantError panics; it is only ever reached if a caller
// bypassed the public API and corrupted a reserved slot out from under an
// in-flight Add, or if the bucket implementation itself has a bug. See
// DESIGN.md for why this is a panic and not a returned error.
func internalInvariantError(msg string) {
	panic("u64set: internal invariant violated: " + msg)
}
