package similarity

import (
	"fmt"
	"log/slog"

	"reclaim/internal/config"
)

// NewFromConfig assembles the configured text and image scorers and wraps
// the pair in a Degrading scorer. Config validation has already rejected
// unknown backends, so an unknown name here is a programming error.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (Scorer, error) {
	gemini := NewGeminiScorer(GeminiConfig{
		APIKey:         cfg.Similarity.APIKey,
		BaseURL:        cfg.Similarity.BaseURL,
		Model:          cfg.Similarity.Model,
		TimeoutSeconds: cfg.Similarity.TimeoutSeconds,
	})
	command := NewCommandScorer(cfg.Similarity.TextCommand, cfg.Similarity.ImageCommand, cfg.Similarity.TimeoutSeconds)

	var text Scorer
	switch cfg.Similarity.TextBackend {
	case "token":
		text = NewTokenScorer()
	case "gemini":
		text = gemini
	case "command":
		text = command
	default:
		return nil, fmt.Errorf("similarity: unknown text backend %q", cfg.Similarity.TextBackend)
	}

	var image Scorer
	switch cfg.Similarity.ImageBackend {
	case "gemini":
		image = gemini
	case "command":
		image = command
	default:
		return nil, fmt.Errorf("similarity: unknown image backend %q", cfg.Similarity.ImageBackend)
	}

	return NewDegrading(Split{Text: text, Image: image}, logger), nil
}
