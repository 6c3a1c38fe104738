// Package procrun is the single entry point for spawning external tools.
//
// Every component that shells out (ffprobe, ImageMagick, lsof) receives a
// Runner instead of calling os/exec directly. A Command carries the binary,
// arguments and an optional timeout; the context supplies cancellation. The
// Result keeps stdout, stderr and the exit code so callers can interpret
// tool-specific exit statuses (lsof exits 1 when nothing holds the file).
//
// Tests substitute RunnerFunc or a scripted fake.
package procrun
