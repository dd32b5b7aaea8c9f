// Package config loads, normalizes, and validates the TOML configuration
// that drives reclaim.
//
// Load resolves the config path (explicit flag, ~/.config/reclaim, or a
// project-local reclaim.toml), layers the file over Default(), expands all
// path fields to absolute paths, and rejects unusable values before any
// subsystem starts. Thresholds and scorer backends for the matching
// pipeline live here so nothing in the engine reads ambient global state.
package config
