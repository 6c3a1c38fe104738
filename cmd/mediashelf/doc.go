// Package main hosts the mediashelf CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration, sets up structured
// logging, and hands off to internal/workflow: "run" executes one batch,
// "scan" previews classification and grouping without touching files,
// "status" reports directory and tool readiness, and "config" scaffolds and
// validates the TOML file.
//
// Keep this package lean: behaviour belongs in the internal packages and is
// only surfaced here through commands and flags.
package main
