package artwork

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/tiff"

	"mediashelf/internal/logging"
	"mediashelf/internal/media/ffprobe"
)

// Measurer builds Candidates from image files.
type Measurer struct {
	prober ffprobe.Prober
	logger *slog.Logger
}

// NewMeasurer returns a Measurer. A nil prober skips straight to decoding
// the image header in process.
func NewMeasurer(prober ffprobe.Prober, logger *slog.Logger) *Measurer {
	return &Measurer{prober: prober, logger: logging.NewComponentLogger(logger, "artwork")}
}

// Measure stats path and determines its displayed pixel dimensions. Missing
// dimensions are not an error: the candidate simply cannot win on aspect ratio.
func (m *Measurer) Measure(ctx context.Context, path string) (Candidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("stat artwork: %w", err)
	}
	candidate := Candidate{Path: path, ModTime: info.ModTime()}

	width, height, ok := m.probeDimensions(ctx, path)
	if !ok {
		width, height, ok = decodeDimensions(path)
	}
	if !ok {
		logging.WarnWithContext(logging.WithContext(ctx, m.logger), "image dimensions unavailable", "artwork_dimensions_unknown",
			logging.Path(path),
			logging.String(logging.FieldImpact, "aspect ratio rule skipped for this image"),
		)
		return candidate, nil
	}
	if rotated(path) {
		width, height = height, width
	}
	candidate.Width, candidate.Height = width, height
	return candidate, nil
}

func (m *Measurer) probeDimensions(ctx context.Context, path string) (int, int, bool) {
	if m.prober == nil {
		return 0, 0, false
	}
	result, err := m.prober.Probe(ctx, path)
	if err != nil {
		m.logger.Debug("ffprobe could not read image; decoding header", logging.Path(path), logging.Error(err))
		return 0, 0, false
	}
	return result.Dimensions()
}

func decodeDimensions(path string) (int, int, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

// rotated reports whether the EXIF orientation (5 through 8) turns the
// stored frame by 90 degrees.
func rotated(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	x, err := exif.Decode(f)
	if err != nil {
		return false
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return false
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return false
	}
	return orientation >= 5 && orientation <= 8
}
