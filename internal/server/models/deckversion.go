package models

import "time"

// DeckVersion is an immutable, numbered snapshot of a deck at a point in
// time. Version numbers are unique and strictly increasing per deck.
// Name, Description and IsPublic are copied from the deck at snapshot
// time; VersionName is the optional human label.
type DeckVersion struct {
	ID          string    `json:"id"`
	DeckID      string    `json:"deckId"`
	Version     int64     `json:"version"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	VersionName string    `json:"versionName,omitempty"`
	ChangeNote  string    `json:"changeNote,omitempty"`
	IsPublic    bool      `json:"isPublic"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DeckVersionCard mirrors DeckCard but is scoped to a DeckVersion and
// never mutated after creation.
type DeckVersionCard struct {
	ID        string
	VersionID string
	CardID    string
	Quantity  int
	Category  string
}

// VersionSummary is the list-view projection of a version, with card
// statistics aggregated against the catalog.
type VersionSummary struct {
	ID          string    `json:"id"`
	Version     int64     `json:"version"`
	VersionName string    `json:"versionName,omitempty"`
	ChangeNote  string    `json:"changeNote,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	CardCount   int64     `json:"cardCount"`
	UniqueCards int64     `json:"uniqueCards"`
	TotalCost   int64     `json:"totalCost"`
}

// VersionCardDetail is one snapshot card joined with its catalog name
// and cost.
type VersionCardDetail struct {
	CardID   string `json:"cardId"`
	CardName string `json:"cardName"`
	Cost     int    `json:"cost"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
}

// VersionDetail is a full version with its card entries.
type VersionDetail struct {
	DeckVersion
	Cards []VersionCardDetail `json:"cards"`
}

// RestoreResult reports the outcome of restoring a deck to a version.
type RestoreResult struct {
	RestoredFromVersion int64 `json:"restoredFromVersion"`
	NewCurrentVersion   int64 `json:"newCurrentVersion"`
}
