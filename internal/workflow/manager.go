package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"mediashelf/internal/artwork"
	"mediashelf/internal/classifier"
	"mediashelf/internal/config"
	"mediashelf/internal/grouper"
	"mediashelf/internal/logging"
	"mediashelf/internal/media/ffprobe"
	"mediashelf/internal/mediaset"
	"mediashelf/internal/organizer"
	"mediashelf/internal/procrun"
	"mediashelf/internal/purpose"
	"mediashelf/internal/services"
	"mediashelf/internal/setdir"
)

// Stage names stamped on the context of each step.
const (
	StageClassify = "classify"
	StageGroup    = "group"
	StagePurpose  = "purpose"
	StageSetDir   = "set_directory"
	StageArtwork  = "artwork"
	StageLibrary  = "library"
)

// ErrAlreadyRunning is returned when another run holds the lock file.
var ErrAlreadyRunning = errors.New("another mediashelf run is already in progress")

// Stages bundles the collaborators the Manager chains together.
type Stages struct {
	Classifier *classifier.Classifier
	Grouper    *grouper.Grouper
	Purposes   *purpose.Organizer
	SetDirs    *setdir.Integrator
	Normalizer *artwork.Normalizer
	Measurer   *artwork.Measurer
	Detector   artwork.Detector
	Library    *organizer.Organizer
}

// Options selects the directory a run reads from.
type Options struct {
	// Root defaults to the configured input directory.
	Root      string
	Recursive bool
}

// Manager runs the batch pipeline.
type Manager struct {
	cfg      *config.Config
	stages   Stages
	lockPath string
	logger   *slog.Logger
}

// NewManager wires every stage against the external tools named in cfg.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	runner := procrun.NewExecRunner(cfg.ToolTimeout())
	return NewManagerWithStages(cfg, DefaultStages(cfg, runner, logger), logger)
}

// DefaultStages builds the production stage set on top of runner.
func DefaultStages(cfg *config.Config, runner procrun.Runner, logger *slog.Logger) Stages {
	return Stages{
		Classifier: classifier.NewClassifier(cfg, runner, logger),
		Grouper:    grouper.NewGrouper(cfg, runner, logger),
		Purposes:   purpose.NewOrganizer(cfg, logger),
		SetDirs:    setdir.NewIntegrator(cfg, logger),
		Normalizer: artwork.NewNormalizer(cfg, runner, logger),
		Measurer:   artwork.NewMeasurer(ffprobe.NewClient(runner, cfg.FFprobeBinary()), logger),
		Detector:   DetectorFromConfig(cfg),
		Library:    organizer.NewOrganizer(cfg, runner, logger),
	}
}

// DetectorFromConfig returns a poster/fanart detector using the configured keywords.
func DetectorFromConfig(cfg *config.Config) artwork.Detector {
	return artwork.Detector{
		PosterKeyword: cfg.Artwork.PosterKeyword,
		FanartKeyword: cfg.Artwork.FanartKeyword,
	}
}

// NewManagerWithStages allows injecting collaborators (used in tests).
func NewManagerWithStages(cfg *config.Config, stages Stages, logger *slog.Logger) *Manager {
	if stages.Detector.PosterKeyword == "" && stages.Detector.FanartKeyword == "" {
		stages.Detector = artwork.DefaultDetector
	}
	return &Manager{
		cfg:      cfg,
		stages:   stages,
		lockPath: filepath.Join(cfg.Paths.LogDir, "mediashelf.lock"),
		logger:   logging.NewComponentLogger(logger, "workflow"),
	}
}

// LockPath returns the lock file guarding concurrent runs.
func (m *Manager) LockPath() string {
	return m.lockPath
}

func (m *Manager) resolveOptions(opts Options) Options {
	if opts.Root == "" {
		opts.Root = m.cfg.Paths.InputDir
		opts.Recursive = opts.Recursive || m.cfg.Workflow.Recursive
	}
	return opts
}

// Plan is the read-only part of a run: what was found and how it groups.
type Plan struct {
	Root     string
	Entries  []classifier.Entry
	Grouping grouper.Result
	Sets     []mediaset.MediaSet
}

// Preview classifies, groups and organizes without moving anything. When
// purpose organization fails the returned plan still carries the entries
// and grouping so callers can show what was found.
func (m *Manager) Preview(ctx context.Context, opts Options) (Plan, error) {
	opts = m.resolveOptions(opts)
	return m.plan(ctx, opts)
}

func (m *Manager) plan(ctx context.Context, opts Options) (Plan, error) {
	plan := Plan{Root: opts.Root}

	entries, err := m.stages.Classifier.Scan(services.WithStage(ctx, StageClassify), opts.Root, opts.Recursive)
	if err != nil {
		return plan, err
	}
	plan.Entries = entries

	grouping, err := m.stages.Grouper.Group(services.WithStage(ctx, StageGroup), entries)
	if err != nil {
		return plan, err
	}
	plan.Grouping = grouping

	sets, err := m.stages.Purposes.Organize(grouping.Groups)
	if err != nil {
		return plan, err
	}
	plan.Sets = sets
	return plan, nil
}

// Run executes one batch. Errors that abort the run before any file moved
// are returned; per-set failures are recorded in the summary instead.
func (m *Manager) Run(ctx context.Context, opts Options) (Summary, error) {
	opts = m.resolveOptions(opts)

	if err := os.MkdirAll(filepath.Dir(m.lockPath), 0o755); err != nil {
		return Summary{}, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(m.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return Summary{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return Summary{}, ErrAlreadyRunning
	}
	defer func() { _ = lock.Unlock() }()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, m.logger)
	summary := Summary{RunID: runID, Root: opts.Root, Started: time.Now()}

	logger.Info(
		"batch run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("root", opts.Root),
		logging.Bool("recursive", opts.Recursive),
	)

	plan, err := m.plan(ctx, opts)
	summary.absorb(plan)
	if err != nil {
		summary.Elapsed = time.Since(summary.Started)
		logging.ErrorWithContext(logger, "batch run aborted before any file moved", "run_aborted",
			logging.Error(err),
			logging.String(logging.FieldImpact, "no files were moved"),
		)
		return summary, err
	}

	for _, set := range plan.Sets {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(summary.Started)
			return summary, err
		}
		summary.Sets = append(summary.Sets, m.processSet(ctx, set))
	}

	summary.Elapsed = time.Since(summary.Started)
	logger.Info(
		"batch run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("sets", len(summary.Sets)),
		logging.Int("published", summary.Published()),
		logging.Int("deferred", summary.Deferred()),
		logging.Int("failed", summary.Failed()),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}
