package organizer

import (
	"context"
	"fmt"
	"os"

	"mediashelf/internal/logging"
	"mediashelf/internal/services"
)

// validateLibraryVideo checks that the copied video is a non-empty regular
// file that still probes as video.
func (o *Organizer) validateLibraryVideo(ctx context.Context, path string) error {
	logger := logging.WithContext(ctx, o.logger)
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrIO, "organizer", "validate video", "failed to stat library copy", err)
	}
	if !info.Mode().IsRegular() || info.Size() == 0 {
		logger.Error("library video validation failed", logging.Path(path), logging.Int64("size_bytes", info.Size()))
		return services.Wrap(
			services.ErrIO,
			"organizer",
			"validate video",
			fmt.Sprintf("library copy %q is not a non-empty file", path),
			nil,
		)
	}
	probe, err := o.prober.Probe(ctx, path)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "organizer", "validate video", "failed to inspect library copy", err)
	}
	if probe.VideoStreamCount() == 0 {
		logger.Error("library video validation failed", logging.Path(path), logging.String("reason", "no video stream"))
		return services.Wrap(services.ErrIO, "organizer", "validate video", "library copy has no video stream", nil)
	}
	return nil
}
