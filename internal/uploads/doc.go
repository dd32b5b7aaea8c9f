// Package uploads stores submitted item images on disk and validates them
// before anything else in the pipeline runs.
package uploads
