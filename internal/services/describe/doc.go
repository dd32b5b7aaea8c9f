// Package describe calls the external description-generation service that
// turns an item photo into searchable text.
//
// The client is the only place that knows the wire shape of the service;
// callers receive either trimmed description text or a classified error
// (validation, unavailable, blocked, upstream). It never mutates persisted
// state.
package describe
