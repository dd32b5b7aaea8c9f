package items

import (
	"strings"
	"time"
)

// Kind distinguishes the two item variants driving the matching pipeline.
type Kind string

const (
	KindLost  Kind = "lost"
	KindFound Kind = "found"
)

// LostStatus represents the lifecycle of a lost item.
type LostStatus string

const (
	// LostStatusSearching is the initial state of a reported lost item.
	LostStatusSearching LostStatus = "searching"
	// LostStatusMatchFound is set once at least one match record has been
	// durably committed for the item.
	LostStatusMatchFound LostStatus = "match_found"
)

// FoundStatus represents the lifecycle of a found item. The matching
// pipeline only ever reads AvailableStatus items and never writes a
// found item's status; the remaining states belong to a future claim
// workflow.
type FoundStatus string

const (
	FoundStatusAvailable    FoundStatus = "available"
	FoundStatusPendingClaim FoundStatus = "pending_claim"
	FoundStatusResolved     FoundStatus = "resolved"
)

var lostStatusSet = map[LostStatus]struct{}{
	LostStatusSearching:  {},
	LostStatusMatchFound: {},
}

var foundStatusSet = map[FoundStatus]struct{}{
	FoundStatusAvailable:    {},
	FoundStatusPendingClaim: {},
	FoundStatusResolved:     {},
}

// ParseLostStatus converts a string into a known LostStatus.
func ParseLostStatus(value string) (LostStatus, bool) {
	normalized := LostStatus(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := lostStatusSet[normalized]
	return normalized, ok
}

// ParseFoundStatus converts a string into a known FoundStatus.
func ParseFoundStatus(value string) (FoundStatus, bool) {
	normalized := FoundStatus(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := foundStatusSet[normalized]
	return normalized, ok
}

// Attributes carries the free-form reporting details captured when an item
// is submitted. They are stored for display and claim verification; the
// matching pipeline itself only consumes the generated description.
type Attributes struct {
	Category  string
	Color     string
	Brand     string
	Condition string
	Location  string
}

// Item is one reported lost or found item. Description and ImageRef are set
// exactly once during intake, before any matching run sees the item.
type Item struct {
	ID          string
	Kind        Kind
	OwnerID     string
	Attributes  Attributes
	ImageRef    string
	Description string
	LostStatus  LostStatus
	FoundStatus FoundStatus
	CreatedAt   time.Time
}

// HasImage reports whether the item carries a stored image reference.
func (i *Item) HasImage() bool {
	return i != nil && strings.TrimSpace(i.ImageRef) != ""
}

// HasDescription reports whether the item carries a usable description.
func (i *Item) HasDescription() bool {
	return i != nil && strings.TrimSpace(i.Description) != ""
}

// MatchStatus represents the lifecycle of a persisted match record. The
// pipeline only ever creates records in the pending state; a downstream
// claim workflow transitions them further.
type MatchStatus string

const (
	MatchStatusPending MatchStatus = "pending"
)

// MatchRecord is persisted evidence that a lost/found pair passed both
// similarity gates. (LostItemID, FoundItemID) is the natural key; at most
// one live record exists per pair.
type MatchRecord struct {
	ID              int64
	LostItemID      string
	FoundItemID     string
	TextSimilarity  float64 // [0,1]
	ImageSimilarity int     // [0,100]
	DiscoveredAt    time.Time
	MatchStatus     MatchStatus
}
