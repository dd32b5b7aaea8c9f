// Package services defines shared utilities consumed by the intake
// coordinator and the external service clients.
//
// Key responsibilities:
//   - Context helpers that stamp item IDs and correlation identifiers for
//     logging.
//   - Structured error markers plus the Wrap helper so failures classify
//     consistently (validation vs unavailable vs upstream vs store) with
//     errors.Is.
//
// Use these helpers when wiring new pipeline logic so error handling and
// observability stay uniform.
package services
