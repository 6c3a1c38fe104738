package config

import (
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePurposes()
	c.normalizeArtwork()
	c.normalizeTools()
	c.normalizeWorkflow()
	c.normalizeLogging()
	c.Library.UnsortedAlbum = strings.TrimSpace(c.Library.UnsortedAlbum)
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("MEDIASHELF_INPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.InputDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("MEDIASHELF_LIBRARY_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.LibraryDir = strings.TrimSpace(value)
	}
	var err error
	if c.Paths.InputDir, err = expandPath(c.Paths.InputDir); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePurposes() {
	c.Purposes.MediaServerSuffixes = normalizeList(c.Purposes.MediaServerSuffixes)
	c.Purposes.InternetSuffixes = normalizeList(c.Purposes.InternetSuffixes)
	c.Purposes.MediaServerFolder = strings.TrimSpace(c.Purposes.MediaServerFolder)
	if c.Purposes.MediaServerFolder == "" {
		c.Purposes.MediaServerFolder = defaultMediaServerFolder
	}
	c.Purposes.InternetFolder = strings.TrimSpace(c.Purposes.InternetFolder)
	if c.Purposes.InternetFolder == "" {
		c.Purposes.InternetFolder = defaultInternetFolder
	}
}

func (c *Config) normalizeArtwork() {
	c.Artwork.PosterKeyword = strings.ToLower(strings.TrimSpace(c.Artwork.PosterKeyword))
	if c.Artwork.PosterKeyword == "" {
		c.Artwork.PosterKeyword = defaultPosterKeyword
	}
	c.Artwork.FanartKeyword = strings.ToLower(strings.TrimSpace(c.Artwork.FanartKeyword))
	if c.Artwork.FanartKeyword == "" {
		c.Artwork.FanartKeyword = defaultFanartKeyword
	}
	c.Artwork.BannerPostfix = strings.TrimSpace(c.Artwork.BannerPostfix)
	if c.Artwork.BannerPostfix == "" {
		c.Artwork.BannerPostfix = defaultBannerPostfix
	}
	ext := strings.ToLower(strings.TrimSpace(c.Artwork.PreferredExtension))
	if ext == "" {
		ext = defaultPreferredExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Artwork.PreferredExtension = ext
	c.Artwork.SourceProfile = strings.TrimSpace(c.Artwork.SourceProfile)
	c.Artwork.TargetProfile = strings.TrimSpace(c.Artwork.TargetProfile)
	c.Artwork.ConvertedSuffix = strings.TrimSpace(c.Artwork.ConvertedSuffix)
	if c.Artwork.ConvertedSuffix == "" {
		c.Artwork.ConvertedSuffix = defaultConvertedSuffix
	}
	if c.Artwork.JPEGQuality <= 0 || c.Artwork.JPEGQuality > 100 {
		c.Artwork.JPEGQuality = defaultJPEGQuality
	}
}

func (c *Config) normalizeTools() {
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	c.Tools.Magick = strings.TrimSpace(c.Tools.Magick)
	c.Tools.Lsof = strings.TrimSpace(c.Tools.Lsof)
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.ProbeConcurrency <= 0 {
		c.Workflow.ProbeConcurrency = defaultProbeConcurrency
	}
	if c.Workflow.ToolTimeoutSeconds < 0 {
		c.Workflow.ToolTimeoutSeconds = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func parseMode(value string) (fs.FileMode, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "0o")
	if trimmed == "" {
		return 0, fmt.Errorf("empty mode")
	}
	parsed, err := strconv.ParseUint(trimmed, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("parse mode %q: %w", value, err)
	}
	if parsed > 0o777 {
		return 0, fmt.Errorf("mode %q exceeds 0777", value)
	}
	return fs.FileMode(parsed), nil
}
