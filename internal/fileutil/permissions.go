package fileutil

import (
	"fmt"
	"io/fs"
	"os"
)

// PermissionNormalizer re-applies a permission mask to a path.
type PermissionNormalizer interface {
	Normalize(path string) error
}

// ModeNormalizer chmods directories and regular files to fixed masks.
// Renames and copies do not carry ownership or ACL bits across volumes, so
// callers apply it after every mkdir and move.
type ModeNormalizer struct {
	DirMode  fs.FileMode
	FileMode fs.FileMode
}

// NewModeNormalizer returns a normalizer for the given masks.
func NewModeNormalizer(dirMode, fileMode fs.FileMode) ModeNormalizer {
	return ModeNormalizer{DirMode: dirMode.Perm(), FileMode: fileMode.Perm()}
}

// Normalize chmods path according to its type. Symlinks and other special
// files are left alone.
func (n ModeNormalizer) Normalize(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("normalize permissions: %w", err)
	}
	var mode fs.FileMode
	switch {
	case info.IsDir():
		mode = n.DirMode
	case info.Mode().IsRegular():
		mode = n.FileMode
	default:
		return nil
	}
	if info.Mode().Perm() == mode {
		return nil
	}
	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("normalize permissions: %w", err)
	}
	return nil
}

// MkdirNormalized creates dir (and parents) and normalizes dir itself.
func MkdirNormalized(dir string, n PermissionNormalizer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	if n == nil {
		return nil
	}
	return n.Normalize(dir)
}
