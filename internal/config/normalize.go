package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDescribe()
	c.normalizeSimilarity()
	c.normalizeMatching()
	c.normalizeUploads()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.UploadsDir) == "" {
		c.Paths.UploadsDir = defaultUploadsDir
	}
	if c.Paths.UploadsDir, err = expandPath(c.Paths.UploadsDir); err != nil {
		return fmt.Errorf("paths.uploads_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDescribe() {
	if c.Describe.APIKey == "" {
		if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
			c.Describe.APIKey = value
		}
	}
	c.Describe.APIKey = strings.TrimSpace(c.Describe.APIKey)
	c.Describe.BaseURL = strings.TrimRight(strings.TrimSpace(c.Describe.BaseURL), "/")
	if c.Describe.BaseURL == "" {
		c.Describe.BaseURL = defaultDescribeBaseURL
	}
	c.Describe.Model = strings.TrimSpace(c.Describe.Model)
	if c.Describe.Model == "" {
		c.Describe.Model = defaultDescribeModel
	}
	if c.Describe.TimeoutSeconds <= 0 {
		c.Describe.TimeoutSeconds = defaultDescribeTimeoutSeconds
	}
}

func (c *Config) normalizeSimilarity() {
	c.Similarity.TextBackend = strings.ToLower(strings.TrimSpace(c.Similarity.TextBackend))
	if c.Similarity.TextBackend == "" {
		c.Similarity.TextBackend = defaultTextBackend
	}
	c.Similarity.ImageBackend = strings.ToLower(strings.TrimSpace(c.Similarity.ImageBackend))
	if c.Similarity.ImageBackend == "" {
		c.Similarity.ImageBackend = defaultImageBackend
	}
	if c.Similarity.APIKey == "" {
		// The similarity scorer shares the describe credentials unless
		// configured separately.
		c.Similarity.APIKey = c.Describe.APIKey
	}
	c.Similarity.APIKey = strings.TrimSpace(c.Similarity.APIKey)
	c.Similarity.BaseURL = strings.TrimRight(strings.TrimSpace(c.Similarity.BaseURL), "/")
	if c.Similarity.BaseURL == "" {
		c.Similarity.BaseURL = c.Describe.BaseURL
	}
	c.Similarity.Model = strings.TrimSpace(c.Similarity.Model)
	if c.Similarity.Model == "" {
		c.Similarity.Model = c.Describe.Model
	}
	if c.Similarity.TimeoutSeconds <= 0 {
		c.Similarity.TimeoutSeconds = defaultSimilarityTimeoutSeconds
	}
}

func (c *Config) normalizeMatching() {
	// Thresholds are seeded by Default() before the file is decoded, so an
	// explicit 0 here is a deliberate pass-everything gate, not an unset key.
	if c.Matching.MaxComparisons <= 0 {
		c.Matching.MaxComparisons = defaultMaxComparisons
	}
}

func (c *Config) normalizeUploads() {
	if c.Uploads.MaxBytes <= 0 {
		c.Uploads.MaxBytes = defaultUploadMaxBytes
	}
	if c.Uploads.MinFreeBytes < 0 {
		c.Uploads.MinFreeBytes = 0
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
