// Package store persists lost items, found items, and match records in
// SQLite and owns their state transitions.
//
// The Store manages connections, schema initialization, and the two
// matching-specific operations: RecordMatch (the idempotency boundary that
// keeps re-run matching scans from duplicating results) and
// MarkLostItemMatched (the searching to match_found transition). Every
// mutation is its own transaction; a multi-candidate matching scan never
// holds one long transaction over the pool.
//
// Treat this package as the single source of truth for item persistence
// semantics; when you add statuses or columns, update schema.sql and bump
// schemaVersion.
package store
