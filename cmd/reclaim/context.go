package main

import (
	"fmt"
	"strings"
	"sync"

	"reclaim/internal/config"
	"reclaim/internal/intake"
	"reclaim/internal/logging"
	"reclaim/internal/matching"
	"reclaim/internal/notifications"
	"reclaim/internal/services/describe"
	"reclaim/internal/services/similarity"
	"reclaim/internal/store"
	"reclaim/internal/uploads"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// pipeline bundles the wired components behind a single open/close pair so
// each command invocation builds exactly one store connection.
type pipeline struct {
	cfg         *config.Config
	store       *store.Store
	images      *uploads.Store
	engine      *matching.Engine
	coordinator *intake.Coordinator
	notifier    notifications.Service
}

func (c *commandContext) withPipeline(fn func(*pipeline) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	images, err := uploads.New(cfg)
	if err != nil {
		return err
	}

	scorer, err := similarity.NewFromConfig(cfg, logger)
	if err != nil {
		return err
	}

	describer := describe.NewClient(describe.Config{
		APIKey:         cfg.Describe.APIKey,
		BaseURL:        cfg.Describe.BaseURL,
		Model:          cfg.Describe.Model,
		TimeoutSeconds: cfg.Describe.TimeoutSeconds,
	})

	notifier := notifications.NewService(cfg)
	engine := matching.NewEngine(st, scorer, images, cfg.Matching, logger)
	coordinator := intake.NewCoordinator(st, images, describer, engine, notifier, logger)

	return fn(&pipeline{
		cfg:         cfg,
		store:       st,
		images:      images,
		engine:      engine,
		coordinator: coordinator,
		notifier:    notifier,
	})
}
