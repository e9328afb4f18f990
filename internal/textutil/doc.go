// Package textutil provides small text helpers shared by the transcript
// importers, the processor, and the CLI.
//
// NormalizeTranscript puts speech-to-text output into a single canonical form
// (NFC, single spaces, no control characters) so that joined step text never
// carries doubled or stray whitespace. SanitizeToken turns identifiers into
// filesystem-safe names, and TitleCase formats labels for display.
package textutil
