package knowledge

import "errors"

var (
	// ErrCorruptStore indicates persisted index/metadata files are present
	// but unreadable or mutually inconsistent. Construction fails rather
	// than silently discarding history.
	ErrCorruptStore = errors.New("knowledge: persisted store is corrupt")

	// ErrDimensionMismatch indicates a vector's dimensionality does not
	// match the store's configured dimension.
	ErrDimensionMismatch = errors.New("knowledge: vector dimension mismatch")

	// ErrPersistence indicates the on-disk snapshot could not be written.
	// In-memory state remains valid and aligned after this error.
	ErrPersistence = errors.New("knowledge: failed to persist store")
)
