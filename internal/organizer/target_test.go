package organizer

import (
	"errors"
	"io/fs"
	"path/filepath"
	"syscall"
	"testing"

	"mediashelf/internal/mediaset"
	"mediashelf/internal/services"
)

func TestResolveBuildsLibraryPath(t *testing.T) {
	name, err := mediaset.ParseName("2024-06-05 Sunset")
	if err != nil {
		t.Fatal(err)
	}
	target, err := Resolver{}.Resolve(" Family/Friends ", name)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := Target{Album: "Family-Friends", Year: "2024", SetName: "2024-06-05 Sunset"}
	if target != want {
		t.Fatalf("unexpected target %+v", target)
	}
	if got := target.Dir("/library"); got != filepath.Join("/library", "Family-Friends", "2024", "2024-06-05 Sunset") {
		t.Fatalf("unexpected dir %q", got)
	}
}

func TestResolveMissingAlbum(t *testing.T) {
	name, _ := mediaset.ParseName("2024-06-05 Sunset")

	_, err := Resolver{}.Resolve("  ", name)
	if !errors.Is(err, ErrMissingAlbum) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected missing album validation error, got %v", err)
	}

	target, err := Resolver{UnsortedAlbum: "Unsorted"}.Resolve("", name)
	if err != nil {
		t.Fatalf("Resolve with fallback: %v", err)
	}
	if target.Album != "Unsorted" {
		t.Fatalf("expected fallback album, got %q", target.Album)
	}
}

func TestResolveRejectsZeroName(t *testing.T) {
	if _, err := (Resolver{}).Resolve("Family", mediaset.Name{}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestIsLibraryUnavailable(t *testing.T) {
	pathErr := &fs.PathError{Op: "mkdir", Path: "/library", Err: syscall.ENOENT}
	if !isLibraryUnavailable(pathErr) {
		t.Fatal("expected ENOENT to mark library unavailable")
	}
	if isLibraryUnavailable(errors.New("permission denied")) || isLibraryUnavailable(nil) {
		t.Fatal("unexpected unavailable classification")
	}
}
