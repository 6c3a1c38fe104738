package mediaset

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"mediashelf/internal/services"
)

// Extension whitelists. Matching is case-insensitive.
var (
	VideoExtensions  = []string{".mov", ".qt", ".mp4", ".m4v"}
	ImageExtensions  = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif"}
	MasterExtensions = []string{".mov", ".qt"}
)

// Kind identifies which asset variant a file was classified as.
type Kind string

const (
	KindVideo  Kind = "video"
	KindImage  Kind = "image"
	KindMaster Kind = "master"
)

// HasExtension reports whether path carries one of exts, ignoring case.
func HasExtension(path string, exts []string) bool {
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}

type asset struct {
	path string
}

// Path returns the current absolute location of the asset.
func (a *asset) Path() string { return a.path }

// Base returns the filename including extension.
func (a *asset) Base() string { return filepath.Base(a.path) }

// Ext returns the extension as found on disk, including the dot.
func (a *asset) Ext() string { return filepath.Ext(a.path) }

// Stem returns the filename without its extension.
func (a *asset) Stem() string {
	base := a.Base()
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Dir returns the directory containing the asset.
func (a *asset) Dir() string { return filepath.Dir(a.path) }

// Relocate records that the file now lives at path.
func (a *asset) Relocate(path string) { a.path = filepath.Clean(path) }

func (a *asset) String() string { return a.path }

func newAsset(kind Kind, path string, exts []string) (asset, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return asset{}, services.Wrap(services.ErrValidation, "mediaset", "new "+string(kind), "empty path", nil)
	}
	if !HasExtension(path, exts) {
		return asset{}, services.Wrap(
			services.ErrValidation,
			"mediaset",
			"new "+string(kind),
			fmt.Sprintf("unsupported extension %q for %s", filepath.Ext(path), filepath.Base(path)),
			nil,
		)
	}
	return asset{path: filepath.Clean(path)}, nil
}

// SupportedVideo is a video file with a whitelisted extension.
type SupportedVideo struct{ asset }

// NewSupportedVideo validates path against VideoExtensions.
func NewSupportedVideo(path string) (*SupportedVideo, error) {
	a, err := newAsset(KindVideo, path, VideoExtensions)
	if err != nil {
		return nil, err
	}
	return &SupportedVideo{a}, nil
}

// SupportedImage is an artwork candidate with a whitelisted extension.
type SupportedImage struct{ asset }

// NewSupportedImage validates path against ImageExtensions.
func NewSupportedImage(path string) (*SupportedImage, error) {
	a, err := newAsset(KindImage, path, ImageExtensions)
	if err != nil {
		return nil, err
	}
	return &SupportedImage{a}, nil
}

// Masterfile is the ProRes archival source of a set. It never takes part in
// purpose classification.
type Masterfile struct{ asset }

// NewMasterfile validates path against MasterExtensions.
func NewMasterfile(path string) (*Masterfile, error) {
	a, err := newAsset(KindMaster, path, MasterExtensions)
	if err != nil {
		return nil, err
	}
	return &Masterfile{a}, nil
}

// SortVideos orders videos by path.
func SortVideos(videos []*SupportedVideo) {
	slices.SortFunc(videos, func(a, b *SupportedVideo) int { return strings.Compare(a.Path(), b.Path()) })
}

// SortImages orders images by path.
func SortImages(images []*SupportedImage) {
	slices.SortFunc(images, func(a, b *SupportedImage) int { return strings.Compare(a.Path(), b.Path()) })
}
