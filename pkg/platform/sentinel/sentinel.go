package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and caches return these
// (optionally wrapped) so services can translate them into domain errors or
// result codes.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store or cache
// - ErrConflict: unique constraint (tag/name/pair) already taken
// - ErrExpired: invitation past its TTL
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrStale: compare-and-set guard failed, cached value no longer current
// - ErrUnavailable: backing service temporarily unreachable
//
// For validation errors (bad input, malformed names), use pkg/clanerrors.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrStale        = errors.New("stale")
	ErrUnavailable  = errors.New("unavailable")
)
