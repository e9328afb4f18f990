// Package logs reads back the clickscribe log file for the CLI.
//
// Tail returns the last N lines with bounded memory, optionally keeping only
// lines that mention a tutorial id, so `clickscribe logs --tutorial <id>`
// shows the history of one alignment run without grepping by hand.
package logs
