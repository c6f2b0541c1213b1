package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and corpus adapters return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store (run, regulation, snapshot)
// - ErrClosed: run channel already torn down
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: corpus or cache temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrClosed       = errors.New("closed")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
