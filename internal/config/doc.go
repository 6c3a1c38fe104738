// Package config loads, normalizes, and validates mediashelf configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MEDIASHELF_LIBRARY_DIR. The Config type centralizes every knob the batch
// workflow and CLI need: input, work and library roots, purpose suffix lists,
// artwork conventions, permission masks and external tool binaries.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
