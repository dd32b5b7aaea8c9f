package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDescribe(); err != nil {
		return err
	}
	if err := c.validateSimilarity(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.UploadsDir) == "" {
		return errors.New("paths.uploads_dir must be set")
	}
	return nil
}

func (c *Config) validateDescribe() error {
	if c.Describe.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/reclaim/config.toml"
		}
		return fmt.Errorf("describe.api_key is required. Set GEMINI_API_KEY env var or edit %s (create with 'reclaim config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateSimilarity() error {
	switch c.Similarity.TextBackend {
	case "token", "gemini":
	case "command":
		if len(c.Similarity.TextCommand) == 0 {
			return errors.New("similarity.text_command must be set when similarity.text_backend is \"command\"")
		}
	default:
		return fmt.Errorf("similarity.text_backend: unsupported value %q", c.Similarity.TextBackend)
	}

	switch c.Similarity.ImageBackend {
	case "gemini":
	case "command":
		if len(c.Similarity.ImageCommand) == 0 {
			return errors.New("similarity.image_command must be set when similarity.image_backend is \"command\"")
		}
	default:
		return fmt.Errorf("similarity.image_backend: unsupported value %q", c.Similarity.ImageBackend)
	}

	if needsAPI := c.Similarity.TextBackend == "gemini" || c.Similarity.ImageBackend == "gemini"; needsAPI && c.Similarity.APIKey == "" {
		return errors.New("similarity.api_key must be set when a gemini scorer backend is selected")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.TextThreshold < 0 || c.Matching.TextThreshold > 1 {
		return errors.New("matching.text_threshold must be between 0 and 1")
	}
	if c.Matching.ImageThreshold < 0 || c.Matching.ImageThreshold > 100 {
		return errors.New("matching.image_threshold must be between 0 and 100")
	}
	if c.Matching.MaxComparisons < 1 {
		return errors.New("matching.max_comparisons must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
