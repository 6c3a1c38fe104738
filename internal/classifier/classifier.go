package classifier

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"mediashelf/internal/config"
	"mediashelf/internal/logging"
	"mediashelf/internal/media/ffprobe"
	"mediashelf/internal/mediaset"
	"mediashelf/internal/procrun"
	"mediashelf/internal/services"
	"mediashelf/internal/services/lsof"
)

// Class is the outcome of classifying one directory entry.
type Class string

const (
	ClassVideo   Class = "video"
	ClassImage   Class = "image"
	ClassMaster  Class = "master"
	ClassIgnored Class = "ignored"
)

// Reason explains why an entry was ignored.
type Reason string

const (
	ReasonHidden       Reason = "hidden"
	ReasonDirectory    Reason = "directory"
	ReasonInUse        Reason = "in_use"
	ReasonProbeFailed  Reason = "probe_failed"
	ReasonNotSupported Reason = "not_supported"
)

const masterCodec = "prores"

// Entry is one classified path. Exactly one of Video, Image or Master is set
// unless Class is ClassIgnored.
type Entry struct {
	Path   string
	Class  Class
	Reason Reason
	Detail string
	Video  *mediaset.SupportedVideo
	Image  *mediaset.SupportedImage
	Master *mediaset.Masterfile
}

// Classifier tags directory entries.
type Classifier struct {
	prober ffprobe.Prober
	inUse  lsof.Checker
	logger *slog.Logger
}

// NewClassifier constructs a classifier backed by the configured ffprobe and lsof binaries.
func NewClassifier(cfg *config.Config, runner procrun.Runner, logger *slog.Logger) *Classifier {
	return NewClassifierWithDependencies(
		ffprobe.NewClient(runner, cfg.FFprobeBinary()),
		lsof.NewProbe(runner, cfg.LsofBinary()),
		logger,
	)
}

// NewClassifierWithDependencies allows injecting collaborators (used in tests).
func NewClassifierWithDependencies(prober ffprobe.Prober, inUse lsof.Checker, logger *slog.Logger) *Classifier {
	if inUse == nil {
		inUse = lsof.Never
	}
	return &Classifier{
		prober: prober,
		inUse:  inUse,
		logger: logging.NewComponentLogger(logger, "classifier"),
	}
}

// Scan classifies every entry of root. In recursive mode subdirectories are
// descended into (hidden ones are skipped) and their files are reported
// instead of the directory itself. Entries are returned sorted by path.
func (c *Classifier) Scan(ctx context.Context, root string, recursive bool) ([]Entry, error) {
	logger := logging.WithContext(ctx, c.logger)
	var entries []Entry
	if err := c.scanDir(ctx, root, recursive, &entries); err != nil {
		return nil, err
	}
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Path, b.Path) })

	counts := Count(entries)
	logger.Info(
		"directory classified",
		logging.String("root", root),
		logging.Int("videos", counts[ClassVideo]),
		logging.Int("images", counts[ClassImage]),
		logging.Int("masters", counts[ClassMaster]),
		logging.Int("ignored", counts[ClassIgnored]),
	)
	return entries, nil
}

func (c *Classifier) scanDir(ctx context.Context, dir string, recursive bool, out *[]Entry) error {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return services.Wrap(services.ErrIO, "classifier", "read directory", dir, err)
	}
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, de.Name())
		switch {
		case strings.HasPrefix(de.Name(), "."):
			*out = append(*out, ignored(path, ReasonHidden, ""))
		case de.IsDir() && recursive:
			if err := c.scanDir(ctx, path, recursive, out); err != nil {
				return err
			}
		case de.IsDir():
			*out = append(*out, ignored(path, ReasonDirectory, ""))
		default:
			*out = append(*out, c.classifyFile(ctx, path, de))
		}
	}
	return nil
}

func (c *Classifier) classifyFile(ctx context.Context, path string, de os.DirEntry) Entry {
	logger := logging.WithContext(ctx, c.logger)
	if !de.Type().IsRegular() && de.Type()&os.ModeSymlink == 0 {
		return ignored(path, ReasonNotSupported, "not a regular file")
	}

	busy, err := c.inUse.InUse(ctx, path)
	if err != nil {
		logging.WarnWithContext(logger, "in-use probe failed; treating file as in use", "in_use_probe_failed",
			logging.Path(path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that lsof is installed and runnable"),
			logging.String(logging.FieldImpact, "file skipped until the next run"),
		)
	}
	if busy {
		logging.Decision(logger, slog.LevelDebug, "file skipped", "classification", string(ReasonInUse), "file open by another process", logging.Path(path))
		return ignored(path, ReasonInUse, errorDetail(err))
	}

	if mediaset.HasExtension(path, mediaset.MasterExtensions) {
		result, err := c.prober.Probe(ctx, path)
		if err != nil {
			logging.WarnWithContext(logger, "codec probe failed; ignoring file", "codec_probe_failed",
				logging.Path(path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "file excluded from this run"),
			)
			return ignored(path, ReasonProbeFailed, err.Error())
		}
		if strings.EqualFold(result.VideoCodec(), masterCodec) {
			master, err := mediaset.NewMasterfile(path)
			if err != nil {
				return ignored(path, ReasonNotSupported, err.Error())
			}
			return Entry{Path: path, Class: ClassMaster, Master: master}
		}
	}

	switch {
	case mediaset.HasExtension(path, mediaset.VideoExtensions):
		video, err := mediaset.NewSupportedVideo(path)
		if err != nil {
			return ignored(path, ReasonNotSupported, err.Error())
		}
		return Entry{Path: path, Class: ClassVideo, Video: video}
	case mediaset.HasExtension(path, mediaset.ImageExtensions):
		image, err := mediaset.NewSupportedImage(path)
		if err != nil {
			return ignored(path, ReasonNotSupported, err.Error())
		}
		return Entry{Path: path, Class: ClassImage, Image: image}
	default:
		return ignored(path, ReasonNotSupported, "")
	}
}

func ignored(path string, reason Reason, detail string) Entry {
	return Entry{Path: path, Class: ClassIgnored, Reason: reason, Detail: detail}
}

func errorDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Count tallies entries per class.
func Count(entries []Entry) map[Class]int {
	counts := make(map[Class]int, 4)
	for _, e := range entries {
		counts[e.Class]++
	}
	return counts
}
