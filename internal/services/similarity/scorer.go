package similarity

import (
	"context"
	"log/slog"
)

// Scorer computes similarity between two items. Implementations are pure
// functions of their inputs from the pipeline's perspective; they never
// mutate persisted state.
//
// CompareText returns a score in [0,1]. CompareImages returns an integer
// percentage in [0,100] and receives the stored image paths plus both
// descriptions for context.
type Scorer interface {
	CompareText(ctx context.Context, a, b string) (float64, error)
	CompareImages(ctx context.Context, imagePathA, descA, imagePathB, descB string) (int, error)
}

// Degrading wraps a Scorer with the pipeline's fail-safe: any comparison
// error degrades to a zero score instead of propagating, so one slow or
// broken candidate comparison never aborts a matching run. A broken scorer
// degrades matching quality, not availability. Scores are also clamped into
// range.
type Degrading struct {
	inner  Scorer
	logger *slog.Logger
}

// NewDegrading wraps scorer with the zero-score fallback.
func NewDegrading(scorer Scorer, logger *slog.Logger) *Degrading {
	if logger == nil {
		logger = slog.Default()
	}
	return &Degrading{inner: scorer, logger: logger}
}

func (d *Degrading) CompareText(ctx context.Context, a, b string) (float64, error) {
	score, err := d.inner.CompareText(ctx, a, b)
	if err != nil {
		d.logger.Warn("text comparison degraded to zero score", "error", err)
		return 0, nil
	}
	if score < 0 {
		return 0, nil
	}
	if score > 1 {
		return 1, nil
	}
	return score, nil
}

func (d *Degrading) CompareImages(ctx context.Context, imagePathA, descA, imagePathB, descB string) (int, error) {
	score, err := d.inner.CompareImages(ctx, imagePathA, descA, imagePathB, descB)
	if err != nil {
		d.logger.Warn("image comparison degraded to zero score", "error", err)
		return 0, nil
	}
	if score < 0 {
		return 0, nil
	}
	if score > 100 {
		return 100, nil
	}
	return score, nil
}
