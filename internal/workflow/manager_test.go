package workflow_test

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"mediashelf/internal/artwork"
	"mediashelf/internal/classifier"
	"mediashelf/internal/config"
	"mediashelf/internal/grouper"
	"mediashelf/internal/logging"
	"mediashelf/internal/organizer"
	"mediashelf/internal/purpose"
	"mediashelf/internal/services"
	"mediashelf/internal/services/lsof"
	"mediashelf/internal/setdir"
	"mediashelf/internal/testsupport"
	"mediashelf/internal/workflow"
)

const (
	serverFile   = "2024-06-05 Sunset-4K60-Medienserver.mov"
	internetFile = "2024-06-05 Sunset-4K-Internet.m4v"
	imageFile    = "2024-06-05 Sunset.jpg"
)

type harness struct {
	cfg     *config.Config
	probe   *testsupport.FakeProbe
	manager *workflow.Manager
}

func newHarness(t *testing.T, inUse lsof.Checker, opts ...testsupport.ConfigOption) *harness {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	probe := testsupport.NewFakeProbe()
	logger := logging.NewNop()

	stages := workflow.Stages{
		Classifier: classifier.NewClassifierWithDependencies(probe, inUse, logger),
		Grouper:    grouper.NewGrouperWithDependencies(probe, 2, logger),
		Purposes:   purpose.NewOrganizer(cfg, logger),
		SetDirs:    setdir.NewIntegrator(cfg, logger),
		Normalizer: artwork.NewNormalizerWithDependencies(artwork.NativeJPEGConverter{Quality: 90}, nil, cfg.Artwork.ConvertedSuffix, logger),
		Measurer:   artwork.NewMeasurer(probe, logger),
		Detector:   workflow.DetectorFromConfig(cfg),
		Library: organizer.NewOrganizerWithDependencies(
			organizer.Options{
				LibraryDir:         cfg.Paths.LibraryDir,
				UnsortedAlbum:      cfg.Library.UnsortedAlbum,
				BannerPostfix:      cfg.Artwork.BannerPostfix,
				PreferredExtension: cfg.Artwork.PreferredExtension,
				FileMode:           cfg.FileMode(),
			},
			probe,
			inUse,
			nil,
			nil,
			logger,
		),
	}
	return &harness{cfg: cfg, probe: probe, manager: workflow.NewManagerWithStages(cfg, stages, logger)}
}

// addSunset writes the three exports of the "2024-06-05 Sunset" set and
// registers their probe results.
func (h *harness) addSunset(t *testing.T, album string) {
	t.Helper()
	tags := map[string]string{"title": "2024-06-05 Sunset", "comment": "Evening at the lake"}
	if album != "" {
		tags["album"] = album
	}
	for _, name := range []string{serverFile, internetFile, imageFile} {
		testsupport.WriteFile(t, filepath.Join(h.cfg.Paths.InputDir, name), 128)
	}
	h.probe.
		Video(serverFile, "hevc", tags).
		Video(internetFile, "h264", tags).
		Video("Sunset.mov", "hevc", tags).
		Image(imageFile, 1000, 1500)
}

func TestRunPublishesSet(t *testing.T) {
	h := newHarness(t, nil)
	h.addSunset(t, "Family")

	summary, err := h.manager.Run(context.Background(), workflow.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("expected run id")
	}
	if len(summary.Sets) != 1 || summary.Published() != 1 || summary.Failed() != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Classified[classifier.ClassVideo] != 2 || summary.Classified[classifier.ClassImage] != 1 {
		t.Fatalf("unexpected classification counts: %v", summary.Classified)
	}

	wantWork := []string{
		"2024-06-05 Sunset/2024-06-05 Sunset.jpg",
		"2024-06-05 Sunset/Internet/" + internetFile,
		"2024-06-05 Sunset/Medienserver/" + serverFile,
	}
	if got := testsupport.ListFiles(t, h.cfg.Paths.WorkDir); !slices.Equal(got, wantWork) {
		t.Fatalf("unexpected work layout:\n got %v\nwant %v", got, wantWork)
	}
	wantLibrary := []string{
		"Family/2024/2024-06-05 Sunset/Sunset.jpg",
		"Family/2024/2024-06-05 Sunset/Sunset.mov",
		"Family/2024/2024-06-05 Sunset/Sunset.xml",
	}
	if got := testsupport.ListFiles(t, h.cfg.Paths.LibraryDir); !slices.Equal(got, wantLibrary) {
		t.Fatalf("unexpected library layout:\n got %v\nwant %v", got, wantLibrary)
	}
	if got := testsupport.ListFiles(t, h.cfg.Paths.InputDir); len(got) != 0 {
		t.Fatalf("expected input to be drained, got %v", got)
	}

	set := summary.Sets[0]
	if set.Artwork == nil || set.Artwork.Fanart != nil || set.Artwork.Rule != artwork.BySingleCandidate {
		t.Fatalf("expected single poster, got %+v", set.Artwork)
	}
}

func TestRunAbortsOnMultipleMediaServerFiles(t *testing.T) {
	h := newHarness(t, nil)
	tags := map[string]string{"title": "2024-06-05 Sunset", "album": "Family"}
	first := "2024-06-05 Sunset-4K60-Medienserver.mov"
	second := "2024-06-05 Sunset-1080p-Medienserver.mov"
	for _, name := range []string{first, second} {
		testsupport.WriteFile(t, filepath.Join(h.cfg.Paths.InputDir, name), 64)
		h.probe.Video(name, "hevc", tags)
	}

	_, err := h.manager.Run(context.Background(), workflow.Options{})
	if !errors.Is(err, purpose.ErrMultipleMediaServerFiles) {
		t.Fatalf("expected multiple media-server error, got %v", err)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if got := testsupport.ListFiles(t, h.cfg.Paths.InputDir); len(got) != 2 {
		t.Fatalf("expected both exports untouched, got %v", got)
	}
	if got := testsupport.ListFiles(t, h.cfg.Paths.WorkDir); len(got) != 0 {
		t.Fatalf("expected no files moved, got %v", got)
	}
}

func TestRunDefersVideoStillOpen(t *testing.T) {
	busy := lsof.CheckerFunc(func(_ context.Context, path string) (bool, error) {
		return strings.Contains(filepath.ToSlash(path), "/Medienserver/"), nil
	})
	h := newHarness(t, busy)
	h.addSunset(t, "Family")

	summary, err := h.manager.Run(context.Background(), workflow.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Deferred() != 1 || summary.Published() != 0 || summary.Failed() != 0 {
		t.Fatalf("unexpected summary: published=%d deferred=%d failed=%d", summary.Published(), summary.Deferred(), summary.Failed())
	}
	if got := testsupport.ListFiles(t, h.cfg.Paths.LibraryDir); len(got) != 0 {
		t.Fatalf("expected empty library, got %v", got)
	}
	if got := testsupport.ListFiles(t, h.cfg.Paths.WorkDir); !slices.Contains(got, "2024-06-05 Sunset/Medienserver/"+serverFile) {
		t.Fatalf("expected source video to remain for the next run, got %v", got)
	}
}

func TestRunContinuesAfterSetFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.addSunset(t, "Family")

	other := "2023-12-24 Eve-4K60-Medienserver.mov"
	testsupport.WriteFile(t, filepath.Join(h.cfg.Paths.InputDir, other), 64)
	h.probe.Video(other, "hevc", map[string]string{"title": "2023-12-24 Eve"})

	summary, err := h.manager.Run(context.Background(), workflow.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Sets) != 2 || summary.Published() != 1 || summary.Failed() != 1 {
		t.Fatalf("unexpected summary: %+v", summary.Sets)
	}
	failed := summary.Sets[0]
	if failed.Name != "2023-12-24 Eve" || failed.Stage != workflow.StageLibrary {
		t.Fatalf("unexpected failed set: %+v", failed)
	}
	if !errors.Is(failed.Err, organizer.ErrMissingAlbum) {
		t.Fatalf("expected missing album error, got %v", failed.Err)
	}
}

func TestRunUsesUnsortedAlbum(t *testing.T) {
	h := newHarness(t, nil, testsupport.WithUnsortedAlbum("Unsorted"))
	h.addSunset(t, "")

	summary, err := h.manager.Run(context.Background(), workflow.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Published() != 1 {
		t.Fatalf("expected set published, got %+v", summary.Sets)
	}
	if got := testsupport.ListFiles(t, h.cfg.Paths.LibraryDir); !slices.Contains(got, "Unsorted/2024/2024-06-05 Sunset/Sunset.mov") {
		t.Fatalf("expected unsorted bucket, got %v", got)
	}
}

func TestRunRejectsConcurrentRun(t *testing.T) {
	h := newHarness(t, nil)
	held := flock.New(h.manager.LockPath())
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("pre-acquire lock: ok=%v err=%v", ok, err)
	}
	defer func() { _ = held.Unlock() }()

	if _, err := h.manager.Run(context.Background(), workflow.Options{}); !errors.Is(err, workflow.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestPreviewMovesNothing(t *testing.T) {
	h := newHarness(t, nil)
	h.addSunset(t, "Family")

	plan, err := h.manager.Preview(context.Background(), workflow.Options{})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(plan.Sets) != 1 {
		t.Fatalf("expected one set, got %d", len(plan.Sets))
	}
	set := plan.Sets[0]
	if set.MediaServer == nil || len(set.Internet) != 1 || len(set.Images) != 1 {
		t.Fatalf("unexpected set: %+v", set)
	}
	if got := testsupport.ListFiles(t, h.cfg.Paths.InputDir); len(got) != 3 {
		t.Fatalf("expected exports untouched, got %v", got)
	}
}
