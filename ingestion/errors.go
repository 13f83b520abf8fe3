package ingestion

import "errors"

var (
	// ErrCollectionsRequired is returned when no collections are provided.
	ErrCollectionsRequired = errors.New("collections required")

	// ErrInvalidStoreFailureLimit is returned when the consecutive store
	// failure limit is not positive.
	ErrInvalidStoreFailureLimit = errors.New("store failure limit must be positive")

	// ErrStoreUnavailable marks a source aborted after repeated store failures.
	ErrStoreUnavailable = errors.New("store unavailable")
)
