package organizer

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"mediashelf/internal/artwork"
	"mediashelf/internal/config"
	"mediashelf/internal/fileutil"
	"mediashelf/internal/logging"
	"mediashelf/internal/media/ffprobe"
	"mediashelf/internal/mediaset"
	"mediashelf/internal/metadata"
	"mediashelf/internal/procrun"
	"mediashelf/internal/services"
	"mediashelf/internal/services/lsof"
	"mediashelf/internal/textutil"
)

// Outcome describes what an integrator did with one file.
type Outcome string

const (
	OutcomeCopied    Outcome = "copied"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeInUse     Outcome = "in_use"
	OutcomeWritten   Outcome = "written"
	OutcomeNone      Outcome = "none"
)

// Report summarizes the library integration of one set.
type Report struct {
	Set      string
	Target   Target
	Dir      string
	Video    Outcome
	Poster   Outcome
	Fanart   Outcome
	Metadata Outcome
	Elapsed  time.Duration
}

// FilesWritten counts the library files created or replaced.
func (r Report) FilesWritten() int {
	n := 0
	for _, o := range []Outcome{r.Video, r.Poster, r.Fanart, r.Metadata} {
		if o == OutcomeCopied || o == OutcomeWritten {
			n++
		}
	}
	return n
}

// CopyFunc copies src to dst preserving the modification time.
type CopyFunc func(src, dst string) error

// Options holds the library naming conventions.
type Options struct {
	LibraryDir         string
	UnsortedAlbum      string
	BannerPostfix      string
	PreferredExtension string
	FileMode           fs.FileMode
}

// Organizer integrates media sets into the library.
type Organizer struct {
	opts     Options
	resolver Resolver
	prober   ffprobe.Prober
	inUse    lsof.Checker
	perms    fileutil.PermissionNormalizer
	copy     CopyFunc
	logger   *slog.Logger
}

// NewOrganizer constructs the library organizer using default dependencies.
func NewOrganizer(cfg *config.Config, runner procrun.Runner, logger *slog.Logger) *Organizer {
	return NewOrganizerWithDependencies(
		Options{
			LibraryDir:         cfg.Paths.LibraryDir,
			UnsortedAlbum:      cfg.Library.UnsortedAlbum,
			BannerPostfix:      cfg.Artwork.BannerPostfix,
			PreferredExtension: cfg.Artwork.PreferredExtension,
			FileMode:           cfg.FileMode(),
		},
		ffprobe.NewClient(runner, cfg.FFprobeBinary()),
		lsof.NewProbe(runner, cfg.LsofBinary()),
		fileutil.NewModeNormalizer(cfg.DirMode(), cfg.FileMode()),
		nil,
		logger,
	)
}

// NewOrganizerWithDependencies allows injecting collaborators (used in tests).
func NewOrganizerWithDependencies(opts Options, prober ffprobe.Prober, inUse lsof.Checker, perms fileutil.PermissionNormalizer, copyFn CopyFunc, logger *slog.Logger) *Organizer {
	if opts.PreferredExtension == "" {
		opts.PreferredExtension = ".jpg"
	}
	if inUse == nil {
		inUse = lsof.Never
	}
	if copyFn == nil {
		copyFn = fileutil.CopyFileVerified
	}
	return &Organizer{
		opts:     opts,
		resolver: Resolver{UnsortedAlbum: opts.UnsortedAlbum},
		prober:   prober,
		inUse:    inUse,
		perms:    perms,
		copy:     copyFn,
		logger:   logging.NewComponentLogger(logger, "organizer"),
	}
}

// Integrate runs the video, artwork and metadata integrators for set. pair
// may be nil when the set has no artwork. A set without a media-server video
// has nothing to publish and returns an empty report.
func (o *Organizer) Integrate(ctx context.Context, set mediaset.MediaSet, pair *artwork.Pair) (Report, error) {
	started := time.Now()
	ctx = services.WithMediaSet(ctx, set.Name.String())
	logger := logging.WithContext(ctx, o.logger)
	report := Report{Set: set.Name.String(), Video: OutcomeNone, Poster: OutcomeNone, Fanart: OutcomeNone, Metadata: OutcomeNone}

	if set.MediaServer == nil {
		logging.Decision(logger, slog.LevelInfo, "library integration skipped", "library_integration", "skip", "set has no media-server video")
		return report, nil
	}

	// The exporter may still be writing; probing a partial file would fail.
	busy, err := o.inUse.InUse(ctx, set.MediaServer.Path())
	if err != nil {
		logger.Debug("in-use probe failed; treating video as in use", logging.Path(set.MediaServer.Path()), logging.Error(err))
	}
	if busy {
		logIntegrationDecision(logger, "video", "defer", "source open by another process")
		report.Video = OutcomeInUse
		return report, nil
	}

	probe, err := o.prober.Probe(ctx, set.MediaServer.Path())
	if err != nil {
		return report, services.Wrap(services.ErrExternalTool, "organizer", "read container tags", set.MediaServer.Base(), err)
	}
	album := probe.Album()
	if album == "" {
		album = set.Album
	}
	target, err := o.resolver.Resolve(album, set.Name)
	if err != nil {
		logging.WarnWithContext(logger, "library target unresolved; set skipped", "library_target_unresolved",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "tag the export with an album or set library.unsorted_album"),
			logging.String(logging.FieldImpact, "set stays in the work directory"),
		)
		return report, err
	}
	report.Target = target
	report.Dir = target.Dir(o.opts.LibraryDir)
	videoBase := textutil.SanitizeFileName(set.Name.Title)

	outcome, err := o.integrateVideo(ctx, set.MediaServer, report.Dir, videoBase)
	report.Video = outcome
	if err != nil {
		return report, err
	}

	if pair != nil {
		if pair.Poster != nil {
			if report.Poster, err = o.integrateArtwork(ctx, pair.Poster.Path, filepath.Join(report.Dir, videoBase+o.opts.PreferredExtension)); err != nil {
				return report, err
			}
		}
		if pair.Fanart != nil {
			if report.Fanart, err = o.integrateArtwork(ctx, pair.Fanart.Path, filepath.Join(report.Dir, videoBase+o.opts.BannerPostfix+o.opts.PreferredExtension)); err != nil {
				return report, err
			}
		}
	}

	descriptor := metadata.Synthesize(probe.Tags(), set.Name.Date)
	if descriptor.Album == "" {
		descriptor.Album = target.Album
	}
	if report.Metadata, err = o.integrateMetadata(descriptor, filepath.Join(report.Dir, videoBase+".xml")); err != nil {
		return report, err
	}

	report.Elapsed = time.Since(started)
	logger.Info(
		"media set published to library",
		logging.String("target", target.String()),
		logging.String("video", string(report.Video)),
		logging.String("poster", string(report.Poster)),
		logging.String("fanart", string(report.Fanart)),
		logging.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

func (o *Organizer) integrateVideo(ctx context.Context, video *mediaset.SupportedVideo, dir, base string) (Outcome, error) {
	logger := logging.WithContext(ctx, o.logger)

	if err := fileutil.MkdirNormalized(dir, o.perms); err != nil {
		if isLibraryUnavailable(err) {
			logLibraryUnavailable(logger, err)
		}
		return OutcomeNone, services.Wrap(services.ErrIO, "organizer", "create library directory", dir, err)
	}

	dst := filepath.Join(dir, base+video.Ext())
	if same, err := fileutil.SameSizeAndModTime(video.Path(), dst); err != nil {
		return OutcomeNone, services.Wrap(services.ErrIO, "organizer", "compare video", dst, err)
	} else if same {
		logIntegrationDecision(logger, "video", "skip", "identical file already in library")
		return OutcomeUnchanged, nil
	}
	if err := o.copy(video.Path(), dst); err != nil {
		if isLibraryUnavailable(err) {
			logLibraryUnavailable(logger, err)
		}
		return OutcomeNone, services.Wrap(services.ErrIO, "organizer", "copy video", video.Base(), err)
	}
	if err := o.normalize(dst); err != nil {
		return OutcomeNone, err
	}
	if err := o.validateLibraryVideo(ctx, dst); err != nil {
		return OutcomeNone, err
	}
	logger.Info("video copied to library", logging.Path(dst))
	return OutcomeCopied, nil
}

func (o *Organizer) integrateArtwork(ctx context.Context, src, dst string) (Outcome, error) {
	logger := logging.WithContext(ctx, o.logger)
	same, err := fileutil.SameSizeAndModTime(src, dst)
	if err != nil {
		return OutcomeNone, services.Wrap(services.ErrIO, "organizer", "compare artwork", dst, err)
	}
	if same {
		logIntegrationDecision(logger, "artwork", "skip", "identical file already in library")
		return OutcomeUnchanged, nil
	}
	if err := o.copy(src, dst); err != nil {
		return OutcomeNone, services.Wrap(services.ErrIO, "organizer", "copy artwork", filepath.Base(src), err)
	}
	if err := o.normalize(dst); err != nil {
		return OutcomeNone, err
	}
	logger.Info("artwork copied to library", logging.Path(dst))
	return OutcomeCopied, nil
}

func (o *Organizer) integrateMetadata(d metadata.Descriptor, dst string) (Outcome, error) {
	if err := metadata.Write(dst, d, o.opts.FileMode); err != nil {
		return OutcomeNone, services.Wrap(services.ErrIO, "organizer", "write descriptor", dst, err)
	}
	if err := o.normalize(dst); err != nil {
		return OutcomeNone, err
	}
	return OutcomeWritten, nil
}

func (o *Organizer) normalize(path string) error {
	if o.perms == nil {
		return nil
	}
	if err := o.perms.Normalize(path); err != nil {
		return services.Wrap(services.ErrIO, "organizer", "normalize permissions", path, err)
	}
	return nil
}
