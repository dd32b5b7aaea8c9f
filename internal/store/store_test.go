package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"reclaim/internal/items"
	"reclaim/internal/store"
	"reclaim/internal/testsupport"
)

func TestOpenInitializesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := st.CreateLostItem(ctx, store.NewItemParams{
		OwnerID:     "user-1",
		Attributes:  items.Attributes{Category: "wallet", Location: "library"},
		ImageRef:    "lost_abc.jpg",
		Description: "red leather wallet",
	})
	if err != nil {
		t.Fatalf("CreateLostItem failed: %v", err)
	}
	if item.ID == "" {
		t.Fatal("expected item ID to be assigned")
	}
	if item.LostStatus != items.LostStatusSearching {
		t.Fatalf("expected searching status, got %s", item.LostStatus)
	}

	fetched, err := st.GetLostItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetLostItem failed: %v", err)
	}
	if fetched.Description != "red leather wallet" || fetched.Attributes.Category != "wallet" {
		t.Fatalf("unexpected fetched item: %#v", fetched)
	}
	if fetched.CreatedAt.IsZero() {
		t.Fatal("expected created_at to round-trip")
	}
}

func TestOpenIsIdempotentAcrossReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.NewLostItem(t, st, "user-1", "black umbrella", "")
	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	lost, err := reopened.ListLostItems(context.Background())
	if err != nil {
		t.Fatalf("ListLostItems failed: %v", err)
	}
	if len(lost) != 1 {
		t.Fatalf("expected 1 lost item after reopen, got %d", len(lost))
	}
}

func TestCreateItemValidation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := st.CreateLostItem(ctx, store.NewItemParams{Description: "no owner"}); err == nil {
		t.Fatal("expected error when owner missing")
	}
	if _, err := st.CreateFoundItem(ctx, store.NewItemParams{OwnerID: "user-1"}); err == nil {
		t.Fatal("expected error when description missing")
	}
}

func TestGetLostItemNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	_, err := st.GetLostItem(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// The message is shown to CLI users as is; it names the item exactly once.
	if got := err.Error(); got != "lost item missing: not found" {
		t.Fatalf("unexpected error message %q", got)
	}
}

func TestListAvailableFoundItemsFiltersStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		testsupport.NewFoundItem(t, st, "finder", fmt.Sprintf("found item %d", i), "")
	}

	available, err := st.ListAvailableFoundItems(ctx)
	if err != nil {
		t.Fatalf("ListAvailableFoundItems failed: %v", err)
	}
	if len(available) != 3 {
		t.Fatalf("expected 3 available items, got %d", len(available))
	}
	for _, item := range available {
		if item.FoundStatus != items.FoundStatusAvailable {
			t.Fatalf("unexpected status %s in available snapshot", item.FoundStatus)
		}
		if item.Kind != items.KindFound {
			t.Fatalf("unexpected kind %s", item.Kind)
		}
	}
}

func TestRecordMatchIsIdempotentPerPair(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	lost := testsupport.NewLostItem(t, st, "user-1", "red leather wallet", "lost_a.jpg")
	found := testsupport.NewFoundItem(t, st, "user-2", "black leather wallet", "found_b.jpg")

	record := &items.MatchRecord{
		LostItemID:      lost.ID,
		FoundItemID:     found.ID,
		TextSimilarity:  0.55,
		ImageSimilarity: 80,
	}
	outcome, err := st.RecordMatch(ctx, record)
	if err != nil {
		t.Fatalf("RecordMatch failed: %v", err)
	}
	if outcome != store.RecordCreated {
		t.Fatalf("expected created, got %s", outcome)
	}
	if record.ID == 0 || record.DiscoveredAt.IsZero() || record.MatchStatus != items.MatchStatusPending {
		t.Fatalf("expected record fields populated, got %#v", record)
	}

	duplicate := &items.MatchRecord{
		LostItemID:      lost.ID,
		FoundItemID:     found.ID,
		TextSimilarity:  0.61,
		ImageSimilarity: 90,
	}
	outcome, err = st.RecordMatch(ctx, duplicate)
	if err != nil {
		t.Fatalf("RecordMatch replay failed: %v", err)
	}
	if outcome != store.RecordAlreadyExists {
		t.Fatalf("expected already_exists, got %s", outcome)
	}

	records, err := st.MatchesForLostItem(ctx, lost.ID)
	if err != nil {
		t.Fatalf("MatchesForLostItem failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one record for pair, got %d", len(records))
	}
	if records[0].TextSimilarity != 0.55 || records[0].ImageSimilarity != 80 {
		t.Fatalf("expected original scores preserved, got %#v", records[0])
	}
}

func TestRecordMatchRejectsOutOfRangeScores(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	lost := testsupport.NewLostItem(t, st, "user-1", "wallet", "")
	found := testsupport.NewFoundItem(t, st, "user-2", "wallet", "")

	if _, err := st.RecordMatch(ctx, &items.MatchRecord{
		LostItemID: lost.ID, FoundItemID: found.ID, TextSimilarity: 1.2, ImageSimilarity: 80,
	}); err == nil {
		t.Fatal("expected error for text similarity out of range")
	}
	if _, err := st.RecordMatch(ctx, &items.MatchRecord{
		LostItemID: lost.ID, FoundItemID: found.ID, TextSimilarity: 0.5, ImageSimilarity: 120,
	}); err == nil {
		t.Fatal("expected error for image similarity out of range")
	}
}

func TestMarkLostItemMatchedIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	lost := testsupport.NewLostItem(t, st, "user-1", "blue backpack", "")

	if err := st.MarkLostItemMatched(ctx, lost.ID); err != nil {
		t.Fatalf("MarkLostItemMatched failed: %v", err)
	}
	if err := st.MarkLostItemMatched(ctx, lost.ID); err != nil {
		t.Fatalf("repeat MarkLostItemMatched failed: %v", err)
	}

	updated, err := st.GetLostItem(ctx, lost.ID)
	if err != nil {
		t.Fatalf("GetLostItem failed: %v", err)
	}
	if updated.LostStatus != items.LostStatusMatchFound {
		t.Fatalf("expected match_found, got %s", updated.LostStatus)
	}

	if err := st.MarkLostItemMatched(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing item, got %v", err)
	}
}

func TestCollectStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	lost := testsupport.NewLostItem(t, st, "user-1", "wallet", "a.jpg")
	found := testsupport.NewFoundItem(t, st, "user-2", "wallet", "b.jpg")
	if _, err := st.RecordMatch(ctx, &items.MatchRecord{
		LostItemID: lost.ID, FoundItemID: found.ID, TextSimilarity: 0.6, ImageSimilarity: 80,
	}); err != nil {
		t.Fatalf("RecordMatch failed: %v", err)
	}
	if err := st.MarkLostItemMatched(ctx, lost.ID); err != nil {
		t.Fatalf("MarkLostItemMatched failed: %v", err)
	}

	stats, err := st.CollectStats(ctx)
	if err != nil {
		t.Fatalf("CollectStats failed: %v", err)
	}
	if stats.LostTotal != 1 || stats.LostMatchFound != 1 || stats.LostSearching != 0 {
		t.Fatalf("unexpected lost stats: %#v", stats)
	}
	if stats.FoundTotal != 1 || stats.FoundAvailable != 1 {
		t.Fatalf("unexpected found stats: %#v", stats)
	}
	if stats.Matches != 1 {
		t.Fatalf("unexpected match count: %#v", stats)
	}
}
