// Package preflight provides readiness checks for the filesystem paths and
// database that clickscribe depends on.
//
// The CLI "clickscribe status" command runs RunAll and renders each Result.
// Checks never create anything; a missing directory is reported, not fixed.
package preflight
