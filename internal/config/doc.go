// Package config loads, normalizes, and validates clickscribe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CLICKSCRIBE_LOG_LEVEL. The Config type centralizes every knob the CLI and
// the alignment processor need, so data/log directories and alignment policy
// are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
