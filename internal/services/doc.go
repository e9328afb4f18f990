// Package services defines shared utilities consumed by the alignment
// processor and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp tutorial IDs, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent tutorial statuses (failed vs review).
//
// Use these helpers when wiring new processing logic so operational behaviour
// (error handling, observability) stays uniform.
package services
