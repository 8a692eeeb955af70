// Package common defines the sentinel errors shared across the deckforge
// server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Lookup errors. ErrNotFound also covers a version that exists but
	// belongs to a different deck.
	ErrNotFound = errors.New("not found")

	// Authorization errors.
	ErrForbidden = errors.New("forbidden")

	// Validation errors for proposed deck mutations.
	ErrInvalidName = errors.New("invalid name")
	ErrEmptyDeck   = errors.New("empty deck")
	ErrUnknownCard = errors.New("unknown card")

	// Version-history lifecycle errors.
	ErrLastVersionUndeletable = errors.New("last version undeletable")

	// ErrVersionConflict signals that two operations raced for the same
	// version number and the storage-level unique constraint rejected one
	// of them. The whole operation can be retried.
	ErrVersionConflict = errors.New("version conflict")

	// Generic internal failure.
	ErrInternal = errors.New("internal error")
)
