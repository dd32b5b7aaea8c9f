// Package intake accepts lost and found item reports. A submission flows
// through description, image storage, and persistence, and a lost report
// finishes with a matching scan against the available found pool.
package intake
