package intake

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"reclaim/internal/items"
	"reclaim/internal/logging"
	"reclaim/internal/matching"
	"reclaim/internal/notifications"
	"reclaim/internal/services"
	"reclaim/internal/store"
)

// ItemStore is the slice of the persistence layer intake needs.
type ItemStore interface {
	CreateLostItem(ctx context.Context, params store.NewItemParams) (*items.Item, error)
	CreateFoundItem(ctx context.Context, params store.NewItemParams) (*items.Item, error)
}

// ImageStore persists submitted images and can unwind a partial submission.
type ImageStore interface {
	Save(kind items.Kind, data []byte) (string, error)
	Remove(ref string) error
}

// Describer produces an item description from an image.
type Describer interface {
	Describe(ctx context.Context, imageBytes []byte, mimeType string) (string, error)
}

// Matcher runs the matching scan for a newly reported lost item.
type Matcher interface {
	FindMatches(ctx context.Context, lost *items.Item) (*matching.Result, error)
}

// Submission carries one reported item through intake. MimeType may be left
// empty; it is then sniffed from the payload.
type Submission struct {
	OwnerID    string
	Attributes items.Attributes
	Image      []byte
	MimeType   string
}

// Result reports the outcome of a submission. Item is always set on success.
// A lost submission whose matching scan failed still succeeds; the scan
// failure is reported through MatchingErr so the caller can surface it
// without losing the stored item.
type Result struct {
	Item        *items.Item
	Matches     []*items.MatchRecord
	MatchingErr error
}

// Coordinator drives the intake pipeline: describe the image, persist it,
// create the item row, and for lost items kick off the matching scan.
type Coordinator struct {
	store     ItemStore
	images    ImageStore
	describer Describer
	matcher   Matcher
	notifier  notifications.Service
	logger    *slog.Logger
}

// NewCoordinator wires the intake pipeline together.
func NewCoordinator(st ItemStore, images ImageStore, describer Describer, matcher Matcher, notifier notifications.Service, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notifications.NewNop()
	}
	return &Coordinator{
		store:     st,
		images:    images,
		describer: describer,
		matcher:   matcher,
		notifier:  notifier,
		logger:    logger,
	}
}

// SubmitLost reports a lost item and immediately scans for matches.
func (c *Coordinator) SubmitLost(ctx context.Context, sub Submission) (*Result, error) {
	ctx = services.WithRequestID(ctx, uuid.NewString())
	item, err := c.submit(ctx, items.KindLost, sub)
	if err != nil {
		return nil, err
	}
	ctx = services.WithItemID(ctx, item.ID)
	logger := logging.WithContext(ctx, c.logger)

	if err := c.notifier.NotifyLostReported(ctx, item); err != nil {
		logger.Warn("lost report notification failed", "error", err)
	}

	result := &Result{Item: item}
	scan, err := c.matcher.FindMatches(ctx, item)
	if err != nil {
		logger.Error("matching scan failed", "error", err)
		if notifyErr := c.notifier.NotifyError(ctx, err, "matching"); notifyErr != nil {
			logger.Warn("error notification failed", "error", notifyErr)
		}
		result.MatchingErr = err
		return result, nil
	}

	result.Matches = scan.Created
	if len(scan.Created) > 0 {
		if err := c.notifier.NotifyMatchesFound(ctx, item, scan.Created); err != nil {
			logger.Warn("match notification failed", "error", err)
		}
	}
	return result, nil
}

// SubmitFound reports a found item into the candidate pool. Matching runs
// are driven by lost items; a found submission only makes the item
// available to future scans.
func (c *Coordinator) SubmitFound(ctx context.Context, sub Submission) (*Result, error) {
	ctx = services.WithRequestID(ctx, uuid.NewString())
	item, err := c.submit(ctx, items.KindFound, sub)
	if err != nil {
		return nil, err
	}
	ctx = services.WithItemID(ctx, item.ID)

	if err := c.notifier.NotifyFoundReported(ctx, item); err != nil {
		logging.WithContext(ctx, c.logger).Warn("found report notification failed", "error", err)
	}
	return &Result{Item: item}, nil
}

func (c *Coordinator) submit(ctx context.Context, kind items.Kind, sub Submission) (*items.Item, error) {
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	mimeType := sub.MimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(sub.Image)
	}

	description, err := c.describer.Describe(ctx, sub.Image, mimeType)
	if err != nil {
		return nil, err
	}

	ref, err := c.images.Save(kind, sub.Image)
	if err != nil {
		return nil, err
	}

	params := store.NewItemParams{
		OwnerID:     sub.OwnerID,
		Attributes:  sub.Attributes,
		ImageRef:    ref,
		Description: description,
	}

	var item *items.Item
	switch kind {
	case items.KindLost:
		item, err = c.store.CreateLostItem(ctx, params)
	case items.KindFound:
		item, err = c.store.CreateFoundItem(ctx, params)
	}
	logger := logging.WithContext(ctx, c.logger)
	if err != nil {
		if removeErr := c.images.Remove(ref); removeErr != nil {
			logger.Warn("failed to remove image after create failure", "image_ref", ref, "error", removeErr)
		}
		return nil, services.Wrap(services.ErrStore, "intake", "create item", string(kind), err)
	}

	logger.Info("item reported",
		"item_id", item.ID,
		"kind", string(kind),
		"category", item.Attributes.Category,
		"location", item.Attributes.Location,
		"image_ref", ref)
	return item, nil
}

func validateSubmission(sub Submission) error {
	if strings.TrimSpace(sub.OwnerID) == "" {
		return services.Wrap(services.ErrValidation, "intake", "submit", "owner is required", nil)
	}
	if strings.TrimSpace(sub.Attributes.Category) == "" {
		return services.Wrap(services.ErrValidation, "intake", "submit", "category is required", nil)
	}
	if strings.TrimSpace(sub.Attributes.Location) == "" {
		return services.Wrap(services.ErrValidation, "intake", "submit", "location is required", nil)
	}
	if len(sub.Image) == 0 {
		return services.Wrap(services.ErrValidation, "intake", "submit", "image is required", nil)
	}
	return nil
}
