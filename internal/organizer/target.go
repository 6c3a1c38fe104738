package organizer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"mediashelf/internal/mediaset"
	"mediashelf/internal/services"
	"mediashelf/internal/textutil"
)

// ErrMissingAlbum marks a set whose media-server video has no album tag.
var ErrMissingAlbum = errors.New("missing album tag")

// Target is the library location of one media set.
type Target struct {
	Album   string
	Year    string
	SetName string
}

// Dir returns root/Album/Year/SetName.
func (t Target) Dir(root string) string {
	return filepath.Join(root, t.Album, t.Year, t.SetName)
}

func (t Target) String() string {
	return filepath.ToSlash(filepath.Join(t.Album, t.Year, t.SetName))
}

// Resolver derives library targets.
type Resolver struct {
	// UnsortedAlbum replaces a missing album tag when non-empty.
	UnsortedAlbum string
}

// Resolve builds the Target for a set. Every path segment is sanitized.
func (r Resolver) Resolve(album string, name mediaset.Name) (Target, error) {
	if name.IsZero() {
		return Target{}, services.Wrap(services.ErrValidation, "organizer", "resolve target", "set name is empty", nil)
	}
	album = textutil.SanitizeFileName(album)
	if album == "" {
		album = textutil.SanitizeFileName(r.UnsortedAlbum)
	}
	if album == "" || strings.Trim(album, ".") == "" {
		return Target{}, services.Wrap(
			services.ErrValidation,
			"organizer",
			"resolve target",
			fmt.Sprintf("set %q", name.String()),
			ErrMissingAlbum,
		)
	}
	return Target{
		Album:   album,
		Year:    name.Year(),
		SetName: textutil.SanitizeFileName(name.String()),
	}, nil
}
