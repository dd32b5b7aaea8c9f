// Package matching implements the two-stage scan that pairs a lost item
// against the pool of available found items. A cheap text comparison gates
// the expensive image comparison, qualifying pairs become persisted match
// records, and a lost item with any recorded match is flagged match_found.
package matching
