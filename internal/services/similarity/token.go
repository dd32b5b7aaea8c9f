package similarity

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
)

// TokenScorer computes text similarity in-process as the Jaccard index over
// case-folded word sets: |intersection| / |union|, 0.0 for disjoint sets and
// 1.0 for identical ones. Cheap enough to run against every candidate.
//
// TokenScorer does not score images; compose it with an image-capable
// scorer via Split.
type TokenScorer struct {
	folder cases.Caser
}

// NewTokenScorer constructs the word-overlap text scorer.
func NewTokenScorer() *TokenScorer {
	return &TokenScorer{folder: cases.Fold()}
}

func (s *TokenScorer) CompareText(ctx context.Context, a, b string) (float64, error) {
	wordsA := s.wordSet(a)
	wordsB := s.wordSet(b)

	if len(wordsA) == 0 && len(wordsB) == 0 {
		return 1, nil
	}

	intersection := 0
	for word := range wordsA {
		if _, ok := wordsB[word]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0, nil
	}
	return float64(intersection) / float64(union), nil
}

func (s *TokenScorer) wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, field := range strings.Fields(text) {
		set[s.folder.String(field)] = struct{}{}
	}
	return set
}

// Split routes text and image comparisons to different scorers, so the
// cheap stage-1 text gate can run in-process while stage 2 calls out.
type Split struct {
	Text  Scorer
	Image Scorer
}

func (s Split) CompareText(ctx context.Context, a, b string) (float64, error) {
	return s.Text.CompareText(ctx, a, b)
}

func (s Split) CompareImages(ctx context.Context, imagePathA, descA, imagePathB, descB string) (int, error) {
	return s.Image.CompareImages(ctx, imagePathA, descA, imagePathB, descB)
}

// CompareImages on TokenScorer always reports no similarity; it exists so a
// TokenScorer can stand alone in tests.
func (s *TokenScorer) CompareImages(ctx context.Context, imagePathA, descA, imagePathB, descB string) (int, error) {
	return 0, nil
}
