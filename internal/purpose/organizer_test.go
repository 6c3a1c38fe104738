package purpose_test

import (
	"errors"
	"testing"

	"mediashelf/internal/logging"
	"mediashelf/internal/mediaset"
	"mediashelf/internal/purpose"
	"mediashelf/internal/services"
)

func group(t *testing.T, title string, videos ...string) mediaset.Group {
	t.Helper()
	name, err := mediaset.ParseName(title)
	if err != nil {
		t.Fatal(err)
	}
	g := mediaset.Group{Name: name, Albums: map[string]string{}}
	for _, path := range videos {
		v, err := mediaset.NewSupportedVideo(path)
		if err != nil {
			t.Fatal(err)
		}
		g.Videos = append(g.Videos, v)
	}
	return g
}

func newOrganizer() *purpose.Organizer {
	return purpose.NewOrganizerWithSuffixes(
		[]string{"-4K60-Medienserver", "-Medienserver"},
		[]string{"-Internet"},
		logging.NewNop(),
	)
}

func TestOrganizeSplitsByPurpose(t *testing.T) {
	g := group(t, "2024-06-05 Sunset",
		"/in/2024-06-05 Sunset-4K-Internet.m4v",
		"/in/2024-06-05 Sunset-1080p-Internet.mp4",
		"/in/2024-06-05 Sunset-4K60-Medienserver.mov",
		"/in/2024-06-05 Sunset-Preview.mp4",
	)
	img, _ := mediaset.NewSupportedImage("/in/2024-06-05 Sunset.jpg")
	g.Images = []*mediaset.SupportedImage{img}
	g.Albums["/in/2024-06-05 Sunset-4K60-Medienserver.mov"] = "Family"

	sets, err := newOrganizer().Organize([]mediaset.Group{g})
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("expected one set, got %d", len(sets))
	}
	set := sets[0]
	if set.MediaServer == nil || set.MediaServer.Base() != "2024-06-05 Sunset-4K60-Medienserver.mov" {
		t.Fatalf("unexpected media server video: %v", set.MediaServer)
	}
	if len(set.Internet) != 2 {
		t.Fatalf("expected two internet videos, got %v", set.Internet)
	}
	if len(set.Raw) != 4 || len(set.Unmatched()) != 1 {
		t.Fatalf("unexpected raw/unmatched: %v %v", set.Raw, set.Unmatched())
	}
	if len(set.Images) != 1 || set.Album != "Family" {
		t.Fatalf("unexpected images/album: %v %q", set.Images, set.Album)
	}
}

func TestOrganizeRejectsSecondMediaServerVideo(t *testing.T) {
	ok := group(t, "2024-06-04 Dawn", "/in/2024-06-04 Dawn-Medienserver.mov")
	bad := group(t, "2024-06-05 Sunset",
		"/in/2024-06-05 Sunset-4K60-Medienserver.mov",
		"/in/2024-06-05 Sunset-Medienserver.mp4",
	)

	sets, err := newOrganizer().Organize([]mediaset.Group{ok, bad})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, purpose.ErrMultipleMediaServerFiles) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("unexpected error classification: %v", err)
	}
	if sets != nil {
		t.Fatalf("expected no sets on failure, got %d", len(sets))
	}
}

func TestOrganizeWithoutMatchesKeepsRawOnly(t *testing.T) {
	g := group(t, "2024-06-05 Sunset", "/in/2024-06-05 Sunset.mov")
	sets, err := newOrganizer().Organize([]mediaset.Group{g})
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if sets[0].MediaServer != nil || len(sets[0].Internet) != 0 || len(sets[0].Raw) != 1 {
		t.Fatalf("unexpected set: %+v", sets[0])
	}
}
