// Package main hosts the Reclaim CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into intake
// submissions, matching sweeps, listing queries, and configuration
// scaffolding. It centralizes configuration resolution and component wiring
// so subcommands can focus on user experience.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
