package lsof

import (
	"context"
	"fmt"
	"strings"

	"mediashelf/internal/procrun"
)

// Checker reports whether a file is open by another process.
type Checker interface {
	InUse(ctx context.Context, path string) (bool, error)
}

// Probe shells out to lsof.
type Probe struct {
	runner procrun.Runner
	binary string
}

// NewProbe constructs an lsof-backed Checker. An empty binary defaults to "lsof".
func NewProbe(runner procrun.Runner, binary string) *Probe {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "lsof"
	}
	return &Probe{runner: runner, binary: binary}
}

// InUse runs `lsof -w -t -- path`. Exit status 0 with output means at least
// one process holds the file; exit status 1 without stderr means none does.
// -w keeps filesystem warnings (unreachable mounts, fuse) off stderr so they
// do not read as failures. Any other outcome is returned as an error
// together with a conservative true.
func (p *Probe) InUse(ctx context.Context, path string) (bool, error) {
	result, err := p.runner.Run(ctx, procrun.Command{
		Name: p.binary,
		Args: []string{"-w", "-t", "--", path},
	})
	if err == nil {
		return strings.TrimSpace(string(result.Stdout)) != "", nil
	}
	if code, ok := procrun.ExitCode(err); ok && code == 1 && strings.TrimSpace(string(result.Stderr)) == "" {
		return false, nil
	}
	return true, fmt.Errorf("lsof %s: %w", path, err)
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context, path string) (bool, error)

// InUse calls f.
func (f CheckerFunc) InUse(ctx context.Context, path string) (bool, error) {
	return f(ctx, path)
}

// Never is a Checker that reports every file as free.
var Never Checker = CheckerFunc(func(context.Context, string) (bool, error) { return false, nil })
