package matching

import (
	"context"
	"log/slog"
	"sync"

	"reclaim/internal/config"
	"reclaim/internal/items"
	"reclaim/internal/services"
	"reclaim/internal/services/similarity"
	"reclaim/internal/store"
)

// MatchStore is the slice of the persistence layer the engine needs.
type MatchStore interface {
	ListAvailableFoundItems(ctx context.Context) ([]*items.Item, error)
	RecordMatch(ctx context.Context, record *items.MatchRecord) (store.RecordOutcome, error)
	MarkLostItemMatched(ctx context.Context, id string) error
}

// ImagePathResolver maps a stored image reference to a readable file path.
type ImagePathResolver interface {
	Path(ref string) string
}

// Result summarizes one matching run for a lost item.
type Result struct {
	// Created holds the match records persisted by this run, in candidate
	// scan order. Pairs that already had a record are not included.
	Created []*items.MatchRecord
	// Compared counts candidates that reached the text stage.
	Compared int
	// Skipped counts candidates excluded before any comparison.
	Skipped int
}

// Engine runs the two-stage matching scan. Stage 1 scores descriptions and
// gates on the text threshold; only candidates at or above it proceed to the
// image stage. Every available found item is scanned; qualifying matches are
// collected rather than stopping at the first hit.
type Engine struct {
	store    MatchStore
	scorer   similarity.Scorer
	images   ImagePathResolver
	logger   *slog.Logger
	matching config.Matching
}

// NewEngine constructs a matching engine. The scorer is expected to degrade
// comparison failures to zero scores; the engine treats scorer errors as
// fatal for the run.
func NewEngine(st MatchStore, scorer similarity.Scorer, images ImagePathResolver, matching config.Matching, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if matching.MaxComparisons < 1 {
		matching.MaxComparisons = 1
	}
	return &Engine{
		store:    st,
		scorer:   scorer,
		images:   images,
		logger:   logger,
		matching: matching,
	}
}

// FindMatches scans all available found items against the lost item. It
// persists a match record for every qualifying pair and marks the lost item
// matched when at least one record exists for it, including pairs recorded
// by an earlier run. Store failures abort the run.
func (e *Engine) FindMatches(ctx context.Context, lost *items.Item) (*Result, error) {
	if lost == nil || lost.ID == "" {
		return nil, services.Wrap(services.ErrValidation, "matching", "find", "lost item required", nil)
	}
	if !lost.HasDescription() {
		e.logger.Info("skipping matching run: lost item has no description", "item_id", lost.ID)
		return &Result{}, nil
	}

	candidates, err := e.store.ListAvailableFoundItems(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrMatchingRun, "matching", "list candidates", "", err)
	}

	run := &matchRun{engine: e, lost: lost, created: make([]*items.MatchRecord, len(candidates))}
	sem := make(chan struct{}, e.matching.MaxComparisons)
	var wg sync.WaitGroup

	for i, candidate := range candidates {
		if !candidate.HasDescription() {
			e.logger.Debug("skipping candidate without description", "item_id", lost.ID, "candidate_id", candidate.ID)
			run.skip()
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(slot int, candidate *items.Item) {
			defer wg.Done()
			defer func() { <-sem }()
			run.compare(ctx, slot, candidate)
		}(i, candidate)
	}
	wg.Wait()

	if run.err != nil {
		return nil, run.err
	}

	result := &Result{Compared: run.compared, Skipped: run.skipped}
	for _, record := range run.created {
		if record != nil {
			result.Created = append(result.Created, record)
		}
	}

	if run.matched {
		if err := run.markMatched(ctx); err != nil {
			return nil, err
		}
	}

	e.logger.Info("matching run complete",
		"item_id", lost.ID,
		"candidates", len(candidates),
		"compared", result.Compared,
		"matches_created", len(result.Created))
	return result, nil
}

// matchRun holds the mutable state shared by the comparison workers.
type matchRun struct {
	engine  *Engine
	lost    *items.Item
	created []*items.MatchRecord

	mu       sync.Mutex
	err      error
	compared int
	skipped  int
	matched  bool

	markOnce sync.Once
	markErr  error
}

func (r *matchRun) skip() {
	r.mu.Lock()
	r.skipped++
	r.mu.Unlock()
}

func (r *matchRun) fail(err error) {
	r.mu.Lock()
	if r.err == nil {
		r.err = err
	}
	r.mu.Unlock()
}

func (r *matchRun) failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err != nil
}

func (r *matchRun) compare(ctx context.Context, slot int, candidate *items.Item) {
	if r.failed() {
		return
	}
	e := r.engine

	r.mu.Lock()
	r.compared++
	r.mu.Unlock()

	textScore, err := e.scorer.CompareText(ctx, r.lost.Description, candidate.Description)
	if err != nil {
		r.fail(services.Wrap(services.ErrMatchingRun, "matching", "text comparison", candidate.ID, err))
		return
	}
	if textScore < e.matching.TextThreshold {
		return
	}

	if !r.lost.HasImage() || !candidate.HasImage() {
		e.logger.Debug("text match without images, skipping image stage",
			"item_id", r.lost.ID, "candidate_id", candidate.ID, "text_score", textScore)
		return
	}

	imageScore, err := e.scorer.CompareImages(ctx,
		e.images.Path(r.lost.ImageRef), r.lost.Description,
		e.images.Path(candidate.ImageRef), candidate.Description)
	if err != nil {
		r.fail(services.Wrap(services.ErrMatchingRun, "matching", "image comparison", candidate.ID, err))
		return
	}
	if imageScore < e.matching.ImageThreshold {
		return
	}

	record := &items.MatchRecord{
		LostItemID:      r.lost.ID,
		FoundItemID:     candidate.ID,
		TextSimilarity:  textScore,
		ImageSimilarity: imageScore,
	}
	outcome, err := e.store.RecordMatch(ctx, record)
	if err != nil {
		r.fail(services.Wrap(services.ErrMatchingRun, "matching", "record match", candidate.ID, err))
		return
	}

	r.mu.Lock()
	r.matched = true
	if outcome == store.RecordCreated {
		r.created[slot] = record
	}
	r.mu.Unlock()

	e.logger.Info("match found",
		"item_id", r.lost.ID,
		"candidate_id", candidate.ID,
		"text_score", textScore,
		"image_score", imageScore,
		"outcome", string(outcome))
}

func (r *matchRun) markMatched(ctx context.Context) error {
	r.markOnce.Do(func() {
		if err := r.engine.store.MarkLostItemMatched(ctx, r.lost.ID); err != nil {
			r.markErr = services.Wrap(services.ErrMatchingRun, "matching", "mark matched", r.lost.ID, err)
		}
	})
	return r.markErr
}
