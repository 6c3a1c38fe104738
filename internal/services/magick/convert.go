package magick

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mediashelf/internal/procrun"
)

// ColorConverter rewrites an image into the target color space.
type ColorConverter interface {
	ConvertColorspace(ctx context.Context, input, output string) error
}

// Options configures the ImageMagick invocation.
type Options struct {
	Binary        string
	SourceProfile string
	TargetProfile string
	Quality       int
}

// Client runs ImageMagick through the shared process runner.
type Client struct {
	runner procrun.Runner
	opts   Options
}

// NewClient constructs an ImageMagick client. An empty binary defaults to "magick".
func NewClient(runner procrun.Runner, opts Options) *Client {
	opts.Binary = strings.TrimSpace(opts.Binary)
	if opts.Binary == "" {
		opts.Binary = "magick"
	}
	return &Client{runner: runner, opts: opts}
}

// ConvertColorspace writes input converted to the configured target gamut to output.
func (c *Client) ConvertColorspace(ctx context.Context, input, output string) error {
	if strings.TrimSpace(input) == "" || strings.TrimSpace(output) == "" {
		return errors.New("magick convert: input and output paths are required")
	}
	if input == output {
		return fmt.Errorf("magick convert: refusing to overwrite %s in place", input)
	}
	if _, err := c.runner.Run(ctx, procrun.Command{Name: c.opts.Binary, Args: c.args(input, output)}); err != nil {
		return fmt.Errorf("magick convert %s: %w", input, err)
	}
	return nil
}

func (c *Client) args(input, output string) []string {
	args := []string{input}
	if c.opts.SourceProfile != "" && c.opts.TargetProfile != "" {
		args = append(args, "-profile", c.opts.SourceProfile, "-profile", c.opts.TargetProfile)
	} else {
		args = append(args, "-colorspace", "sRGB")
	}
	if c.opts.Quality > 0 {
		args = append(args, "-quality", strconv.Itoa(c.opts.Quality))
	}
	return append(args, output)
}
