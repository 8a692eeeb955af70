// Package cards provides the engine's read-only view of the card
// catalog. Search and filtering live elsewhere; the revision engine only
// needs batch existence checks.
package cards

import "context"

type Repository interface {
	// ExistsBatch returns the subset of ids that exist in the catalog.
	ExistsBatch(ctx context.Context, ids []string) (map[string]struct{}, error)
}
