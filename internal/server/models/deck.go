// Package models defines the persistent record shapes of the deck
// revision engine plus the request/result types of its service layer.
package models

import "time"

// Deck is a user-owned, mutable named card collection. CurrentVersion
// tracks the number of the most recently created snapshot (0 before the
// first one); VersionName labels the most recent version or restore.
type Deck struct {
	ID             string
	OwnerID        string
	Name           string
	Description    string
	IsPublic       bool
	CurrentVersion int64
	VersionName    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DeckCard is one row of a deck's live, editable card set. At most one
// row exists per (DeckID, CardID).
type DeckCard struct {
	DeckID   string `json:"-"`
	CardID   string `json:"cardId"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
}

// DeckUpdate carries optional metadata changes for a deck. Nil fields
// are left untouched.
type DeckUpdate struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

// CardEntry is one proposed entry in a submitted card set, before
// validation and normalization.
type CardEntry struct {
	CardID   string `json:"cardId"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
}
