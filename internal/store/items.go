package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"reclaim/internal/items"
)

const itemColumns = "id, owner_id, category, color, brand, condition, location, image_ref, description, status, created_at"

// NewItemParams carries the creation-time fields shared by both item
// variants. Description and ImageRef are immutable once the row exists.
type NewItemParams struct {
	OwnerID     string
	Attributes  items.Attributes
	ImageRef    string
	Description string
}

func (p *NewItemParams) validate() error {
	if strings.TrimSpace(p.OwnerID) == "" {
		return errors.New("owner id is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		return errors.New("description is required")
	}
	return nil
}

// CreateLostItem inserts a new lost item in the searching state and returns
// the stored row.
func (s *Store) CreateLostItem(ctx context.Context, params NewItemParams) (*items.Item, error) {
	if err := params.validate(); err != nil {
		return nil, fmt.Errorf("create lost item: %w", err)
	}
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO lost_items (
            id, owner_id, category, color, brand, condition, location,
            image_ref, description, status, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		params.OwnerID,
		nullableString(params.Attributes.Category),
		nullableString(params.Attributes.Color),
		nullableString(params.Attributes.Brand),
		nullableString(params.Attributes.Condition),
		nullableString(params.Attributes.Location),
		nullableString(params.ImageRef),
		strings.TrimSpace(params.Description),
		items.LostStatusSearching,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert lost item: %w", err)
	}

	return s.GetLostItem(ctx, id)
}

// CreateFoundItem inserts a new found item in the available state and
// returns the stored row.
func (s *Store) CreateFoundItem(ctx context.Context, params NewItemParams) (*items.Item, error) {
	if err := params.validate(); err != nil {
		return nil, fmt.Errorf("create found item: %w", err)
	}
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO found_items (
            id, owner_id, category, color, brand, condition, location,
            image_ref, description, status, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		params.OwnerID,
		nullableString(params.Attributes.Category),
		nullableString(params.Attributes.Color),
		nullableString(params.Attributes.Brand),
		nullableString(params.Attributes.Condition),
		nullableString(params.Attributes.Location),
		nullableString(params.ImageRef),
		strings.TrimSpace(params.Description),
		items.FoundStatusAvailable,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert found item: %w", err)
	}

	return s.GetFoundItem(ctx, id)
}

// GetLostItem fetches a lost item by identifier.
func (s *Store) GetLostItem(ctx context.Context, id string) (*items.Item, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+itemColumns+` FROM lost_items WHERE id = ?`, id)
	item, err := scanItem(row, items.KindLost)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lost item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get lost item: %w", err)
	}
	return item, nil
}

// GetFoundItem fetches a found item by identifier.
func (s *Store) GetFoundItem(ctx context.Context, id string) (*items.Item, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+itemColumns+` FROM found_items WHERE id = ?`, id)
	item, err := scanItem(row, items.KindFound)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("found item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get found item: %w", err)
	}
	return item, nil
}

// ListAvailableFoundItems returns a point-in-time snapshot of found items
// whose status is available, ordered by creation time. Callers must tolerate
// the pool changing underneath them; nothing here locks the table for the
// duration of a matching run.
func (s *Store) ListAvailableFoundItems(ctx context.Context) ([]*items.Item, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+itemColumns+` FROM found_items WHERE status = ? ORDER BY created_at`,
		items.FoundStatusAvailable,
	)
	if err != nil {
		return nil, fmt.Errorf("list available found items: %w", err)
	}
	defer rows.Close()

	var result []*items.Item
	for rows.Next() {
		item, err := scanItem(rows, items.KindFound)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// ListLostByStatus returns lost items matching a status ordered by creation
// time.
func (s *Store) ListLostByStatus(ctx context.Context, status items.LostStatus) ([]*items.Item, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+itemColumns+` FROM lost_items WHERE status = ? ORDER BY created_at`,
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("list lost items by status: %w", err)
	}
	defer rows.Close()

	var result []*items.Item
	for rows.Next() {
		item, err := scanItem(rows, items.KindLost)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// ListLostItems returns all lost items ordered by creation time.
func (s *Store) ListLostItems(ctx context.Context) ([]*items.Item, error) {
	return s.listItems(ctx, "lost_items", items.KindLost)
}

// ListFoundItems returns all found items ordered by creation time.
func (s *Store) ListFoundItems(ctx context.Context) ([]*items.Item, error) {
	return s.listItems(ctx, "found_items", items.KindFound)
}

func (s *Store) listItems(ctx context.Context, table string, kind items.Kind) ([]*items.Item, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+itemColumns+` FROM `+table+` ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var result []*items.Item
	for rows.Next() {
		item, err := scanItem(rows, kind)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// MarkLostItemMatched transitions a lost item to match_found. Setting the
// status when it is already match_found is a no-op; the operation is safe to
// repeat across matching runs.
func (s *Store) MarkLostItemMatched(ctx context.Context, id string) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE lost_items SET status = ? WHERE id = ?`,
		items.LostStatusMatchFound,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark lost item matched: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark lost item matched: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mark lost item matched: lost item %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanItem(scanner interface{ Scan(dest ...any) error }, kind items.Kind) (*items.Item, error) {
	var (
		id          string
		ownerID     string
		category    sql.NullString
		color       sql.NullString
		brand       sql.NullString
		condition   sql.NullString
		location    sql.NullString
		imageRef    sql.NullString
		description string
		statusStr   string
		createdRaw  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&ownerID,
		&category,
		&color,
		&brand,
		&condition,
		&location,
		&imageRef,
		&description,
		&statusStr,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	item := &items.Item{
		ID:      id,
		Kind:    kind,
		OwnerID: ownerID,
		Attributes: items.Attributes{
			Category:  category.String,
			Color:     color.String,
			Brand:     brand.String,
			Condition: condition.String,
			Location:  location.String,
		},
		ImageRef:    imageRef.String,
		Description: description,
	}
	switch kind {
	case items.KindLost:
		item.LostStatus = items.LostStatus(statusStr)
	case items.KindFound:
		item.FoundStatus = items.FoundStatus(statusStr)
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	return item, nil
}
