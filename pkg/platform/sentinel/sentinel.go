package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and cache backends return
// these (optionally wrapped) so callers can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entry does not exist in the store or cache
// - ErrUnavailable: backend temporarily unreachable
//
// An entry found past its TTL reads as ErrNotFound: expiry is lazy deletion,
// not a state callers distinguish.
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
