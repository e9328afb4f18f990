// Package align assigns spoken transcript segments to tutorial steps.
//
// Each step owns the half-open window that starts at its capture timestamp and
// ends at the next step's timestamp; the last step's window is open-ended.
// Every segment whose interval overlaps a step's window contributes its text
// to that step, so a long utterance can land on several consecutive steps.
//
// Step timestamps are integer milliseconds while segment bounds are float
// seconds, matching what the capture extension and speech-to-text providers
// report. Align trusts the caller to pass steps sorted by timestamp; window
// bounds come from adjacent indices, never from re-sorting.
//
// Everything here is pure and safe for concurrent use.
package align
