// Package store persists tutorials, their captured steps, and their transcript
// segments in SQLite.
//
// The Store manages the database connection, schema initialization, busy
// retries, and the writes the alignment processor performs: segments are
// replaced wholesale per tutorial, and aligned step text plus end timestamps
// are applied in a single transaction together with the tutorial's status.
//
// Steps are always returned in their stored sequence order. That order is what
// the aligner treats as chronological, so callers that reorder steps are
// responsible for keeping timestamps ascending.
//
// Schema changes bump the version in schema.go; users clear the database to
// adopt the new schema.
package store
