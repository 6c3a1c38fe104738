package artwork

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mediashelf/internal/config"
	"mediashelf/internal/logging"
	"mediashelf/internal/mediaset"
	"mediashelf/internal/procrun"
	"mediashelf/internal/services"
	"mediashelf/internal/services/magick"
)

// JPEGConverter writes a JPEG rendition of input to output.
type JPEGConverter interface {
	ToJPEG(ctx context.Context, input, output string) error
}

// NativeJPEGConverter decodes TIFF and PNG in process and re-encodes as JPEG.
type NativeJPEGConverter struct {
	Quality int
}

// ToJPEG implements JPEGConverter. The output is written to a temporary
// sibling and renamed so a failed encode leaves no partial file.
func (c NativeJPEGConverter) ToJPEG(ctx context.Context, input, output string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, err := os.Open(input)
	if err != nil {
		return err
	}
	defer in.Close()
	img, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(input), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(output), "."+filepath.Base(output)+".partial-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	quality := c.Quality
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	if err := jpeg.Encode(tmp, img, &jpeg.Options{Quality: quality}); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(output), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, output)
}

// needsJPEG lists the formats the color conversion cannot take directly.
var needsJPEG = []string{".png", ".tif", ".tiff"}

// Normalizer converts set images to color-managed JPEG siblings.
type Normalizer struct {
	jpeg   JPEGConverter
	color  magick.ColorConverter
	suffix string
	logger *slog.Logger
}

// NewNormalizer constructs a Normalizer from configuration.
func NewNormalizer(cfg *config.Config, runner procrun.Runner, logger *slog.Logger) *Normalizer {
	color := magick.NewClient(runner, magick.Options{
		Binary:        cfg.MagickBinary(),
		SourceProfile: cfg.Artwork.SourceProfile,
		TargetProfile: cfg.Artwork.TargetProfile,
		Quality:       cfg.Artwork.JPEGQuality,
	})
	return NewNormalizerWithDependencies(NativeJPEGConverter{Quality: cfg.Artwork.JPEGQuality}, color, cfg.Artwork.ConvertedSuffix, logger)
}

// NewNormalizerWithDependencies allows injecting collaborators (used in tests).
// A nil color converter disables the color-space step.
func NewNormalizerWithDependencies(jpegConv JPEGConverter, color magick.ColorConverter, suffix string, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		jpeg:   jpegConv,
		color:  color,
		suffix: suffix,
		logger: logging.NewComponentLogger(logger, "artwork"),
	}
}

// ConvertedPath returns where the normalized rendition of path is written.
// PNG and TIFF sources keep their extension in the rendition name, so
// "X.png" becomes "X.png-srgb.jpg" and never lands on a sibling "X.jpg".
func (n *Normalizer) ConvertedPath(path string) string {
	stem := renditionStem(path)
	if n.suffix != "" && strings.HasSuffix(stem, n.suffix) {
		return filepath.Join(filepath.Dir(path), stem+".jpg")
	}
	return filepath.Join(filepath.Dir(path), stem+n.suffix+".jpg")
}

func renditionStem(path string) string {
	base := filepath.Base(path)
	if mediaset.HasExtension(path, needsJPEG) {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Normalize returns the path of the color-managed JPEG rendition of img,
// producing it when missing or older than its source. Source files are
// never written.
func (n *Normalizer) Normalize(ctx context.Context, img *mediaset.SupportedImage) (string, error) {
	logger := logging.WithContext(ctx, n.logger)
	source := img.Path()
	colorManaged := n.color != nil && n.suffix != ""
	transcode := mediaset.HasExtension(source, needsJPEG)

	if !transcode && (!colorManaged || strings.HasSuffix(img.Stem(), n.suffix)) {
		return source, nil
	}

	target := n.ConvertedPath(source)
	fresh, err := upToDate(source, target)
	if err != nil {
		return "", services.Wrap(services.ErrIO, "artwork", "check rendition", target, err)
	}
	if fresh {
		logging.Decision(logger, slog.LevelDebug, "image rendition up to date", "image_rendition", "skipped", "target newer than source", logging.Path(target))
		return target, nil
	}

	colorInput := source
	if transcode {
		jpegPath := target
		if colorManaged {
			// Hidden so an interrupted run leaves nothing the classifier picks up.
			jpegPath = filepath.Join(img.Dir(), "."+img.Base()+".jpg")
			defer os.Remove(jpegPath)
		}
		if err := n.jpeg.ToJPEG(ctx, source, jpegPath); err != nil {
			return "", services.Wrap(services.ErrExternalTool, "artwork", "convert to jpeg", img.Base(), err)
		}
		if !colorManaged {
			logger.Info("image converted to jpeg", logging.Path(target))
			return target, nil
		}
		colorInput = jpegPath
	}

	if err := n.color.ConvertColorspace(ctx, colorInput, target); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "artwork", "convert colorspace", img.Base(), err)
	}
	logger.Info("image color converted", logging.Path(target))
	return target, nil
}

// upToDate reports whether target exists and is not older than source.
func upToDate(source, target string) (bool, error) {
	targetInfo, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	sourceInfo, err := os.Stat(source)
	if err != nil {
		return false, err
	}
	return !targetInfo.ModTime().Before(sourceInfo.ModTime()), nil
}
