// Package processing runs alignment for stored tutorials.
//
// A Processor loads a tutorial's steps and transcript segments, applies the
// configured ordering policy, calls the aligner, optionally fills silent
// steps from the nearest segment, and persists the outcome. Runs for the same
// tutorial are serialized with a per-tutorial file lock so two CLI
// invocations cannot interleave their writes. Failures are recorded on the
// tutorial using services.FailureStatus so operators can tell data problems
// (review) from runtime faults (failed).
package processing
