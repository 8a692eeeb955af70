package services

import (
	"context"
	"testing"

	"github.com/deckforge/deckforge/internal/server/models"
)

func TestNextVersion_StartsAtOne(t *testing.T) {
	m := newFakeRepoManager()
	s := NewSnapshotter(m)

	number, err := s.NextVersion(context.Background(), nil, "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if number != 1 {
		t.Fatalf("first version number must be 1, got %d", number)
	}
}

func TestNextVersion_IsMaxPlusOne(t *testing.T) {
	m := newFakeRepoManager()
	s := NewSnapshotter(m)

	m.v.byID["v1"] = &models.DeckVersion{ID: "v1", DeckID: "d1", Version: 1}
	m.v.byID["v5"] = &models.DeckVersion{ID: "v5", DeckID: "d1", Version: 5}
	m.v.byID["other"] = &models.DeckVersion{ID: "other", DeckID: "d2", Version: 9}

	number, err := s.NextVersion(context.Background(), nil, "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// gaps from deleted versions do not get reused
	if number != 6 {
		t.Fatalf("want 6, got %d", number)
	}
}

func TestSnapshotLive_CopiesDeckStateAndCards(t *testing.T) {
	m := newFakeRepoManager()
	s := NewSnapshotter(m)

	deck := &models.Deck{ID: "d1", OwnerID: "u1", Name: "Burn", Description: "aggro list", IsPublic: true}
	m.dc.live["d1"] = []models.DeckCard{
		{DeckID: "d1", CardID: "cX", Quantity: 2, Category: "main"},
		{DeckID: "d1", CardID: "cY", Quantity: 1, Category: "side"},
	}

	version, err := s.SnapshotLive(context.Background(), nil, deck, "My build", "tuned", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version.Version != 1 || version.VersionName != "My build" || version.ChangeNote != "tuned" {
		t.Fatalf("unexpected version: %+v", version)
	}
	if version.Name != "Burn" || version.Description != "aggro list" || !version.IsPublic {
		t.Fatalf("version must copy the deck metadata, got %+v", version)
	}

	cards := m.v.cardsByVersion[version.ID]
	if len(cards) != 2 {
		t.Fatalf("want 2 snapshot cards, got %d", len(cards))
	}
	for _, c := range cards {
		if c.VersionID != version.ID {
			t.Fatalf("snapshot card not bound to the version: %+v", c)
		}
	}
	if cards[1].CardID != "cY" || cards[1].Category != "side" {
		t.Fatalf("quantity and category must be preserved, got %+v", cards[1])
	}

	// live rows stay untouched
	if got := liveSet(m, "d1"); got["cX"] != 2 || got["cY"] != 1 {
		t.Fatalf("snapshot must not modify live cards, got %v", got)
	}
}

func TestSnapshotCards_SuccessiveNumbersAreMonotonic(t *testing.T) {
	m := newFakeRepoManager()
	s := NewSnapshotter(m)

	deck := &models.Deck{ID: "d1", OwnerID: "u1", Name: "Burn"}

	for want := int64(1); want <= 3; want++ {
		version, err := s.SnapshotCards(context.Background(), nil, deck, nil, "", "", "u1")
		if err != nil {
			t.Fatalf("snapshot %d: unexpected error: %v", want, err)
		}
		if version.Version != want {
			t.Fatalf("snapshot %d: got version %d", want, version.Version)
		}
	}
}
