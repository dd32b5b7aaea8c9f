package testsupport

import (
	"context"
	"testing"

	"reclaim/internal/config"
	"reclaim/internal/items"
	"reclaim/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewLostItem creates a lost item for tests using the provided store.
func NewLostItem(t testing.TB, st *store.Store, owner, description, imageRef string) *items.Item {
	t.Helper()

	item, err := st.CreateLostItem(context.Background(), store.NewItemParams{
		OwnerID:     owner,
		Attributes:  items.Attributes{Category: "test", Location: "test"},
		ImageRef:    imageRef,
		Description: description,
	})
	if err != nil {
		t.Fatalf("store.CreateLostItem: %v", err)
	}
	return item
}

// NewFoundItem creates a found item for tests using the provided store.
func NewFoundItem(t testing.TB, st *store.Store, owner, description, imageRef string) *items.Item {
	t.Helper()

	item, err := st.CreateFoundItem(context.Background(), store.NewItemParams{
		OwnerID:     owner,
		Attributes:  items.Attributes{Category: "test", Location: "test"},
		ImageRef:    imageRef,
		Description: description,
	})
	if err != nil {
		t.Fatalf("store.CreateFoundItem: %v", err)
	}
	return item
}
