// Package services defines shared utilities consumed by the pipeline
// components and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and media set names
//     for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent propagation rules (skip item, abort set, abort run).
//
// Tool-specific clients live in subpackages (lsof, magick).
package services
