package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"mediashelf/internal/procrun"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
	raw     []byte
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index     int               `json:"index"`
	CodecName string            `json:"codec_name"`
	CodecType string            `json:"codec_type"`
	CodecTag  string            `json:"codec_tag_string"`
	Duration  string            `json:"duration"`
	BitRate   string            `json:"bit_rate"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Tags      map[string]string `json:"tags"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string            `json:"filename"`
	NBStreams  int               `json:"nb_streams"`
	Duration   string            `json:"duration"`
	Size       string            `json:"size"`
	BitRate    string            `json:"bit_rate"`
	FormatName string            `json:"format_name"`
	Tags       map[string]string `json:"tags"`
}

// Prober inspects a media file.
type Prober interface {
	Probe(ctx context.Context, path string) (Result, error)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, path string) (Result, error)

// Probe calls f.
func (f ProberFunc) Probe(ctx context.Context, path string) (Result, error) {
	return f(ctx, path)
}

// Client runs ffprobe through the shared process runner.
type Client struct {
	runner procrun.Runner
	binary string
}

// NewClient constructs a Client. An empty binary defaults to "ffprobe".
func NewClient(runner procrun.Runner, binary string) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	return &Client{runner: runner, binary: binary}
}

// Probe executes ffprobe against the provided path and decodes the JSON response.
func (c *Client) Probe(ctx context.Context, path string) (Result, error) {
	return Inspect(ctx, c.runner, c.binary, path)
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, runner procrun.Runner, binary string, path string) (Result, error) {
	if runner == nil {
		return Result{}, errors.New("ffprobe inspect: runner unavailable")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	output, err := runner.Run(ctx, procrun.Command{
		Name: binary,
		Args: []string{"-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path},
	})
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	return Parse(output.Stdout)
}

// Parse decodes a raw ffprobe JSON payload.
func Parse(payload []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	result.raw = append([]byte(nil), payload...)
	return result, nil
}

// RawJSON returns the raw ffprobe JSON payload.
func (r Result) RawJSON() []byte {
	return append([]byte(nil), r.raw...)
}

// Tags returns the container tags with lowercase keys. Stream tags of the
// first stream fill gaps, as QuickTime writers sometimes attach metadata there.
func (r Result) Tags() map[string]string {
	tags := make(map[string]string, len(r.Format.Tags))
	for key, value := range r.Format.Tags {
		tags[strings.ToLower(key)] = value
	}
	if len(r.Streams) > 0 {
		for key, value := range r.Streams[0].Tags {
			lower := strings.ToLower(key)
			if _, ok := tags[lower]; !ok {
				tags[lower] = value
			}
		}
	}
	return tags
}

// Tag returns the trimmed value of a container tag, matched case-insensitively.
func (r Result) Tag(key string) string {
	return strings.TrimSpace(r.Tags()[strings.ToLower(key)])
}

// Title returns the container "title" tag.
func (r Result) Title() string {
	return r.Tag("title")
}

// Album returns the container "album" tag.
func (r Result) Album() string {
	return r.Tag("album")
}

// VideoStream returns the first video stream.
func (r Result) VideoStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return stream, true
		}
	}
	return Stream{}, false
}

// VideoCodec returns the lowercase codec name of the first video stream.
func (r Result) VideoCodec() string {
	stream, ok := r.VideoStream()
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(stream.CodecName))
}

// Dimensions returns the frame size of the first video stream.
func (r Result) Dimensions() (int, int, bool) {
	stream, ok := r.VideoStream()
	if !ok || stream.Width <= 0 || stream.Height <= 0 {
		return 0, 0, false
	}
	return stream.Width, stream.Height, true
}

// VideoStreamCount returns the number of video streams discovered.
func (r Result) VideoStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			count++
		}
	}
	return count
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// SizeBytes returns the reported container size in bytes, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	size := parseFloat(r.Format.Size)
	if math.IsNaN(size) || size < 0 {
		return 0
	}
	return int64(size)
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
