package items_test

import (
	"testing"

	"reclaim/internal/items"
)

func TestParseLostStatus(t *testing.T) {
	cases := []struct {
		input string
		want  items.LostStatus
		ok    bool
	}{
		{"searching", items.LostStatusSearching, true},
		{" Match_Found ", items.LostStatusMatchFound, true},
		{"", "", false},
		{"resolved", "", false},
	}
	for _, tc := range cases {
		got, ok := items.ParseLostStatus(tc.input)
		if ok != tc.ok {
			t.Fatalf("ParseLostStatus(%q) ok = %v, want %v", tc.input, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("ParseLostStatus(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseFoundStatus(t *testing.T) {
	if got, ok := items.ParseFoundStatus("AVAILABLE"); !ok || got != items.FoundStatusAvailable {
		t.Fatalf("ParseFoundStatus(AVAILABLE) = %q, %v", got, ok)
	}
	if _, ok := items.ParseFoundStatus("searching"); ok {
		t.Fatal("expected searching to be rejected as a found status")
	}
}

func TestItemPredicates(t *testing.T) {
	var nilItem *items.Item
	if nilItem.HasImage() || nilItem.HasDescription() {
		t.Fatal("nil item should have neither image nor description")
	}

	item := &items.Item{ImageRef: "  ", Description: "\n"}
	if item.HasImage() {
		t.Fatal("whitespace image ref should not count as an image")
	}
	if item.HasDescription() {
		t.Fatal("whitespace description should not count as a description")
	}

	item.ImageRef = "lost_abc.jpg"
	item.Description = "red leather wallet"
	if !item.HasImage() || !item.HasDescription() {
		t.Fatal("expected populated item predicates to hold")
	}
}
