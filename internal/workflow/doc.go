// Package workflow drives one batch run from loose exports to a populated
// library.
//
// The Manager takes a lock file in the log directory, stamps a run id on the
// context, and feeds the input directory through the stages in strict order:
// classify, group, organize by purpose, integrate into the work directory,
// normalize and select artwork, then publish into the library. Grouping and
// purpose organization fail the whole run before anything moves; from the
// set directory stage onward a failure is confined to its media set and the
// run continues with the next one.
//
// Preview runs the read-only half of the pipeline so the CLI can show what a
// run would do without touching the filesystem.
package workflow
