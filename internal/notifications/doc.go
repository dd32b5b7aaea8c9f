// Package notifications delivers push notifications for pipeline events via
// ntfy. With no topic configured the service silently drops everything, so
// callers never need to guard their notification calls.
package notifications
