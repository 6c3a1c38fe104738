package setdir

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"mediashelf/internal/config"
	"mediashelf/internal/fileutil"
	"mediashelf/internal/logging"
	"mediashelf/internal/mediaset"
	"mediashelf/internal/services"
	"mediashelf/internal/textutil"
)

// Folders names the purpose subfolders inside a set directory.
type Folders struct {
	MediaServer string
	Internet    string
}

// MoveFunc moves a file from src to dst.
type MoveFunc func(src, dst string) error

// Integrator relocates media sets into the work directory.
type Integrator struct {
	workDir string
	folders Folders
	perms   fileutil.PermissionNormalizer
	move    MoveFunc
	logger  *slog.Logger
}

// NewIntegrator constructs an Integrator from configuration.
func NewIntegrator(cfg *config.Config, logger *slog.Logger) *Integrator {
	return NewIntegratorWithDependencies(
		cfg.Paths.WorkDir,
		Folders{MediaServer: cfg.Purposes.MediaServerFolder, Internet: cfg.Purposes.InternetFolder},
		fileutil.NewModeNormalizer(cfg.DirMode(), cfg.FileMode()),
		fileutil.MoveFile,
		logger,
	)
}

// NewIntegratorWithDependencies allows injecting collaborators (used in tests).
func NewIntegratorWithDependencies(workDir string, folders Folders, perms fileutil.PermissionNormalizer, move MoveFunc, logger *slog.Logger) *Integrator {
	if move == nil {
		move = fileutil.MoveFile
	}
	return &Integrator{
		workDir: workDir,
		folders: folders,
		perms:   perms,
		move:    move,
		logger:  logging.NewComponentLogger(logger, "setdir"),
	}
}

// SetDir returns the working directory of the named set.
func (i *Integrator) SetDir(name mediaset.Name) string {
	return filepath.Join(i.workDir, textutil.SanitizeFileName(name.String()))
}

// Integrate creates the set directory and its purpose folders, then moves
// the media-server video, the internet videos, the images and the master
// into place. Assets are relocated in place as they move. Videos that match
// no purpose are left where they are.
func (i *Integrator) Integrate(ctx context.Context, set mediaset.MediaSet) (mediaset.MediaSet, error) {
	ctx = services.WithMediaSet(ctx, set.Name.String())
	logger := logging.WithContext(ctx, i.logger)

	root := i.SetDir(set.Name)
	serverDir := filepath.Join(root, i.folders.MediaServer)
	internetDir := filepath.Join(root, i.folders.Internet)
	for _, dir := range []string{root, serverDir, internetDir} {
		if err := fileutil.MkdirNormalized(dir, i.perms); err != nil {
			return set, services.Wrap(services.ErrIO, "setdir", "create directory", dir, err)
		}
	}

	type move struct {
		asset interface {
			Path() string
			Base() string
			Relocate(string)
		}
		dir string
	}
	var moves []move
	if set.MediaServer != nil {
		moves = append(moves, move{set.MediaServer, serverDir})
	}
	for _, v := range set.Internet {
		moves = append(moves, move{v, internetDir})
	}
	for _, img := range set.Images {
		moves = append(moves, move{img, root})
	}
	if set.Master != nil {
		moves = append(moves, move{set.Master, root})
	}

	moved := 0
	for _, m := range moves {
		if err := ctx.Err(); err != nil {
			return set, err
		}
		src := m.asset.Path()
		dst := filepath.Join(m.dir, m.asset.Base())
		if fileutil.SamePath(src, dst) {
			if err := i.normalize(dst); err != nil {
				return set, err
			}
			continue
		}
		if _, err := os.Stat(dst); err == nil {
			logging.WarnWithContext(logger, "replacing existing file in set directory", "set_file_replaced",
				logging.Path(dst),
				logging.String(logging.FieldImpact, "previous copy overwritten"),
			)
		} else if !errors.Is(err, os.ErrNotExist) {
			return set, services.Wrap(services.ErrIO, "setdir", "stat destination", dst, err)
		}
		if err := i.move(src, dst); err != nil {
			logging.ErrorWithContext(logger, "move failed; aborting set", "set_move_failed",
				logging.Path(src),
				logging.String("destination", dst),
				logging.Int("moved_before_failure", moved),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "files already moved stay in the set directory; fix the cause and re-run"),
			)
			return set, services.Wrap(services.ErrIO, "setdir", "move file", m.asset.Base(), err)
		}
		m.asset.Relocate(dst)
		if err := i.normalize(dst); err != nil {
			return set, err
		}
		moved++
		logger.Debug("file moved", logging.Path(dst))
	}

	logger.Info("media set integrated", logging.String("set_dir", root), logging.Int("moved", moved))
	return set, nil
}

func (i *Integrator) normalize(path string) error {
	if i.perms == nil {
		return nil
	}
	if err := i.perms.Normalize(path); err != nil {
		return services.Wrap(services.ErrIO, "setdir", "normalize permissions", path, err)
	}
	return nil
}
