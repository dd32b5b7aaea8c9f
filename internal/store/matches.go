package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"reclaim/internal/items"
)

// RecordOutcome reports whether RecordMatch inserted a new row or found an
// existing one for the pair.
type RecordOutcome string

const (
	RecordCreated       RecordOutcome = "created"
	RecordAlreadyExists RecordOutcome = "already_exists"
)

const matchColumns = "id, lost_item_id, found_item_id, text_similarity, image_similarity, discovered_at, match_status"

// RecordMatch persists a qualifying match. The (lost_item_id, found_item_id)
// pair is the idempotency boundary: inserting a pair that already has a live
// record is a no-op reported as RecordAlreadyExists, so a matching run can be
// replayed after a crash without duplicating results. On RecordCreated the
// record's ID, DiscoveredAt, and MatchStatus are filled in.
func (s *Store) RecordMatch(ctx context.Context, record *items.MatchRecord) (RecordOutcome, error) {
	if record == nil {
		return "", errors.New("record match: record is nil")
	}
	if strings.TrimSpace(record.LostItemID) == "" || strings.TrimSpace(record.FoundItemID) == "" {
		return "", errors.New("record match: lost and found item ids are required")
	}
	if record.TextSimilarity < 0 || record.TextSimilarity > 1 {
		return "", fmt.Errorf("record match: text similarity %v out of range", record.TextSimilarity)
	}
	if record.ImageSimilarity < 0 || record.ImageSimilarity > 100 {
		return "", fmt.Errorf("record match: image similarity %d out of range", record.ImageSimilarity)
	}

	now := time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO match_records (
            lost_item_id, found_item_id, text_similarity, image_similarity,
            discovered_at, match_status
        ) VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT (lost_item_id, found_item_id) DO NOTHING`,
		record.LostItemID,
		record.FoundItemID,
		record.TextSimilarity,
		record.ImageSimilarity,
		now.Format(time.RFC3339Nano),
		items.MatchStatusPending,
	)
	if err != nil {
		return "", fmt.Errorf("insert match record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("insert match record: rows affected: %w", err)
	}
	if affected == 0 {
		return RecordAlreadyExists, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("insert match record: last insert id: %w", err)
	}
	record.ID = id
	record.DiscoveredAt = now
	record.MatchStatus = items.MatchStatusPending
	return RecordCreated, nil
}

// MatchesForLostItem returns all persisted match records for a lost item,
// oldest first.
func (s *Store) MatchesForLostItem(ctx context.Context, lostItemID string) ([]*items.MatchRecord, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+matchColumns+` FROM match_records WHERE lost_item_id = ? ORDER BY discovered_at, id`,
		lostItemID,
	)
	if err != nil {
		return nil, fmt.Errorf("list matches for lost item: %w", err)
	}
	defer rows.Close()

	var records []*items.MatchRecord
	for rows.Next() {
		record, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Stats returns item and match counts for diagnostics.
type Stats struct {
	LostTotal      int
	LostSearching  int
	LostMatchFound int
	FoundTotal     int
	FoundAvailable int
	Matches        int
}

// CollectStats aggregates table counts for the status command.
func (s *Store) CollectStats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var stats Stats

	type countQuery struct {
		dest  *int
		query string
		args  []any
	}
	queries := []countQuery{
		{&stats.LostTotal, `SELECT COUNT(1) FROM lost_items`, nil},
		{&stats.LostSearching, `SELECT COUNT(1) FROM lost_items WHERE status = ?`, []any{items.LostStatusSearching}},
		{&stats.LostMatchFound, `SELECT COUNT(1) FROM lost_items WHERE status = ?`, []any{items.LostStatusMatchFound}},
		{&stats.FoundTotal, `SELECT COUNT(1) FROM found_items`, nil},
		{&stats.FoundAvailable, `SELECT COUNT(1) FROM found_items WHERE status = ?`, []any{items.FoundStatusAvailable}},
		{&stats.Matches, `SELECT COUNT(1) FROM match_records`, nil},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query, q.args...).Scan(q.dest); err != nil {
			return Stats{}, fmt.Errorf("collect stats: %w", err)
		}
	}
	return stats, nil
}

func scanMatch(scanner interface{ Scan(dest ...any) error }) (*items.MatchRecord, error) {
	var (
		id            int64
		lostItemID    string
		foundItemID   string
		textSim       float64
		imageSim      int
		discoveredRaw sql.NullString
		statusStr     string
	)
	if err := scanner.Scan(&id, &lostItemID, &foundItemID, &textSim, &imageSim, &discoveredRaw, &statusStr); err != nil {
		return nil, err
	}

	record := &items.MatchRecord{
		ID:              id,
		LostItemID:      lostItemID,
		FoundItemID:     foundItemID,
		TextSimilarity:  textSim,
		ImageSimilarity: imageSim,
		MatchStatus:     items.MatchStatus(statusStr),
	}
	if discovered, err := parseTimeString(discoveredRaw.String); err == nil {
		record.DiscoveredAt = discovered
	}
	return record, nil
}
