package testsupport

import (
	"path/filepath"
	"testing"

	"reclaim/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Describe.APIKey = "test"
	cfg.Similarity.APIKey = "test"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.UploadsDir = filepath.Join(base, "uploads")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Uploads.MinFreeBytes = 0

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithThresholds overrides the matching thresholds on the test config.
func WithThresholds(text float64, image int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matching.TextThreshold = text
		cfg.Matching.ImageThreshold = image
	}
}

// WithMaxComparisons overrides the comparison concurrency bound.
func WithMaxComparisons(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matching.MaxComparisons = n
	}
}
