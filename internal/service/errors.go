package service

import "errors"

// Error kinds surfaced by the hierarchy and resolution services. Structural
// problems (constraint, cycle) abort the operation and reach the caller;
// resolution-time lookup misses never do — the literal token is returned
// instead so a partially broken reference cannot block rendering.
var (
	// ErrNotInitialized means the store handle is unavailable. Fatal to the
	// calling operation.
	ErrNotInitialized = errors.New("store not initialized")

	// ErrConstraintViolation covers invalid parent references and duplicate ids.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrNotFound marks a referenced group or item that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCycleDetected marks a malformed parent chain. Raised, never looped.
	ErrCycleDetected = errors.New("group hierarchy cycle detected")

	// ErrResolveDepthExceeded marks a reference chain longer than the
	// configured bound. The partially resolved value is still returned.
	ErrResolveDepthExceeded = errors.New("reference chain exceeds maximum depth")
)
