package grouper_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"mediashelf/internal/classifier"
	"mediashelf/internal/grouper"
	"mediashelf/internal/logging"
	"mediashelf/internal/media/ffprobe"
	"mediashelf/internal/mediaset"
	"mediashelf/internal/services"
	"mediashelf/internal/testsupport"
)

func videoEntry(t *testing.T, path string) classifier.Entry {
	t.Helper()
	v, err := mediaset.NewSupportedVideo(path)
	if err != nil {
		t.Fatal(err)
	}
	return classifier.Entry{Path: path, Class: classifier.ClassVideo, Video: v}
}

func imageEntry(t *testing.T, path string) classifier.Entry {
	t.Helper()
	img, err := mediaset.NewSupportedImage(path)
	if err != nil {
		t.Fatal(err)
	}
	return classifier.Entry{Path: path, Class: classifier.ClassImage, Image: img}
}

func masterEntry(t *testing.T, path string) classifier.Entry {
	t.Helper()
	m, err := mediaset.NewMasterfile(path)
	if err != nil {
		t.Fatal(err)
	}
	return classifier.Entry{Path: path, Class: classifier.ClassMaster, Master: m}
}

func sunsetFixture(t *testing.T) (*testsupport.FakeProbe, []classifier.Entry) {
	title := map[string]string{"title": "2024-06-05 Sunset", "album": "Family"}
	probe := testsupport.NewFakeProbe().
		Video("2024-06-05 Sunset-4K60-Medienserver.mov", "hevc", title).
		Video("2024-06-05 Sunset-4K-Internet.m4v", "h264", title).
		Video("untitled.mp4", "h264", nil).
		Video("bad.mp4", "h264", map[string]string{"TITLE": "Holiday"})
	entries := []classifier.Entry{
		videoEntry(t, "/in/2024-06-05 Sunset-4K60-Medienserver.mov"),
		videoEntry(t, "/in/2024-06-05 Sunset-4K-Internet.m4v"),
		videoEntry(t, "/in/untitled.mp4"),
		videoEntry(t, "/in/bad.mp4"),
		imageEntry(t, "/in/2024-06-05 Sunset.jpg"),
		imageEntry(t, "/in/random.png"),
		masterEntry(t, "/in/2024-06-05 Sunset-Master.mov"),
		{Path: "/in/.DS_Store", Class: classifier.ClassIgnored, Reason: classifier.ReasonHidden},
	}
	return probe, entries
}

func TestGroupSunsetScenario(t *testing.T) {
	probe, entries := sunsetFixture(t)
	g := grouper.NewGrouperWithDependencies(probe, 2, logging.NewNop())

	result, err := g.Group(context.Background(), entries)
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if len(result.Groups) != 1 {
		t.Fatalf("expected one group, got %d", len(result.Groups))
	}
	group := result.Groups[0]
	if group.Name.String() != "2024-06-05 Sunset" {
		t.Fatalf("unexpected name %q", group.Name.String())
	}
	if len(group.Videos) != 2 || len(group.Images) != 1 {
		t.Fatalf("unexpected membership: %d videos, %d images", len(group.Videos), len(group.Images))
	}
	if group.Videos[0].Base() != "2024-06-05 Sunset-4K-Internet.m4v" {
		t.Fatalf("videos not sorted by path: %v", group.Videos)
	}
	if group.Master == nil || group.Master.Base() != "2024-06-05 Sunset-Master.mov" {
		t.Fatalf("expected master attached, got %v", group.Master)
	}
	if group.Album() != "Family" {
		t.Fatalf("unexpected album %q", group.Album())
	}
	if len(result.Untagged) != 1 || result.Untagged[0].Base() != "untitled.mp4" {
		t.Fatalf("unexpected untagged: %v", result.Untagged)
	}
	if len(result.Rejected) != 1 || result.Rejected[0].Title != "Holiday" {
		t.Fatalf("unexpected rejected: %+v", result.Rejected)
	}
	if len(result.Unassigned) != 1 || result.Unassigned[0].Base() != "random.png" {
		t.Fatalf("unexpected unassigned images: %v", result.Unassigned)
	}
	for _, call := range probe.Calls() {
		if call == "/in/2024-06-05 Sunset-Master.mov" {
			t.Fatal("master must not be probed for a title")
		}
	}
}

func TestGroupIsIdempotent(t *testing.T) {
	probe, entries := sunsetFixture(t)
	g := grouper.NewGrouperWithDependencies(probe, 4, logging.NewNop())

	first, err := g.Group(context.Background(), entries)
	if err != nil {
		t.Fatalf("first Group: %v", err)
	}
	second, err := g.Group(context.Background(), entries)
	if err != nil {
		t.Fatalf("second Group: %v", err)
	}
	if !reflect.DeepEqual(membership(first), membership(second)) {
		t.Fatalf("membership changed between runs:\n%v\n%v", membership(first), membership(second))
	}
}

func membership(r grouper.Result) map[string][]string {
	out := make(map[string][]string)
	for _, g := range r.Groups {
		key := g.Name.String()
		for _, v := range g.Videos {
			out[key] = append(out[key], v.Path())
		}
		for _, img := range g.Images {
			out[key] = append(out[key], img.Path())
		}
	}
	return out
}

func TestGroupTitlesAreCaseSensitive(t *testing.T) {
	probe := testsupport.NewFakeProbe().
		Video("a.mp4", "h264", map[string]string{"title": "2024-06-05 Sunset"}).
		Video("b.mp4", "h264", map[string]string{"title": "2024-06-05 sunset"})
	entries := []classifier.Entry{videoEntry(t, "/in/a.mp4"), videoEntry(t, "/in/b.mp4")}

	result, err := grouper.NewGrouperWithDependencies(probe, 1, logging.NewNop()).Group(context.Background(), entries)
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if len(result.Groups) != 2 {
		t.Fatalf("expected two groups, got %d", len(result.Groups))
	}
	if result.Groups[0].Name.Title != "Sunset" {
		t.Fatalf("expected groups sorted by name, got %q first", result.Groups[0].Name.Title)
	}
}

func TestGroupAttachesImagesToLongestTitle(t *testing.T) {
	probe := testsupport.NewFakeProbe().
		Video("a.mp4", "h264", map[string]string{"title": "2024-06-05 Sunset"}).
		Video("b.mp4", "h264", map[string]string{"title": "2024-06-05 Sunset Walk"})
	entries := []classifier.Entry{
		videoEntry(t, "/in/a.mp4"),
		videoEntry(t, "/in/b.mp4"),
		imageEntry(t, "/in/2024-06-05 Sunset Walk-poster.jpg"),
		imageEntry(t, "/in/2024-06-05 Sunset-poster.jpg"),
	}
	result, err := grouper.NewGrouperWithDependencies(probe, 2, logging.NewNop()).Group(context.Background(), entries)
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	for _, group := range result.Groups {
		if len(group.Images) != 1 {
			t.Fatalf("%s: expected exactly one image, got %v", group.Name, group.Images)
		}
	}
}

func TestGroupFailsFastOnProbeError(t *testing.T) {
	probe, entries := sunsetFixture(t)
	probe.Fail("bad.mp4", errors.New("exit status 1"))

	_, err := grouper.NewGrouperWithDependencies(probe, 4, logging.NewNop()).Group(context.Background(), entries)
	if err == nil {
		t.Fatal("expected grouping to fail")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
}

func TestGroupBoundsProbeConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	prober := ffprobe.ProberFunc(func(ctx context.Context, path string) (ffprobe.Result, error) {
		n := inFlight.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return ffprobe.Result{Format: ffprobe.Format{Tags: map[string]string{"title": "2024-01-01 Batch"}}}, nil
	})
	var entries []classifier.Entry
	for i := range 12 {
		entries = append(entries, videoEntry(t, fmt.Sprintf("/in/clip-%02d.mp4", i)))
	}

	result, err := grouper.NewGrouperWithDependencies(prober, 3, logging.NewNop()).Group(context.Background(), entries)
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if got := peak.Load(); got > 3 {
		t.Fatalf("expected at most 3 concurrent probes, saw %d", got)
	}
	if len(result.Groups) != 1 || len(result.Groups[0].Videos) != 12 {
		t.Fatalf("unexpected grouping result: %+v", result.Groups)
	}
}
