package embed

import "errors"

var (
	// ErrInvalidParameter indicates malformed configuration: a non-positive
	// lag or dimension, an unrecognized lag strategy, a non-increasing
	// dimension list, or a non-positive tolerance.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidInput indicates a degenerate series: zero variance or a
	// length below the minimum required for the requested operation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingTooShort indicates the requested (lag, dim) pair cannot
	// produce a single delay vector. The dimension-profile loops recover
	// from it locally by marking the remaining dimensions NaN; every other
	// caller should treat it as fatal.
	ErrEmbeddingTooShort = errors.New("series too short to embed")

	// ErrLagNotFound indicates no qualifying lag was found within the
	// scanned range for a symbolic lag strategy. Callers may recover by
	// falling back to lag 1 via ResolveLagOrFallback.
	ErrLagNotFound = errors.New("no qualifying lag found")
)
