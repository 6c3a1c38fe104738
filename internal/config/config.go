package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directory layout of a batch run.
type Paths struct {
	InputDir   string `toml:"input_dir"`
	WorkDir    string `toml:"work_dir"`
	LibraryDir string `toml:"library_dir"`
	LogDir     string `toml:"log_dir"`
}

// Purposes contains the per-purpose filename suffix allow-lists and the
// subfolder names used inside a media set directory.
type Purposes struct {
	MediaServerSuffixes []string `toml:"media_server_suffixes"`
	InternetSuffixes    []string `toml:"internet_suffixes"`
	MediaServerFolder   string   `toml:"media_server_folder"`
	InternetFolder      string   `toml:"internet_folder"`
}

// Artwork contains poster/fanart conventions and colorspace conversion settings.
type Artwork struct {
	PosterKeyword      string `toml:"poster_keyword"`
	FanartKeyword      string `toml:"fanart_keyword"`
	BannerPostfix      string `toml:"banner_postfix"`
	PreferredExtension string `toml:"preferred_extension"`
	SourceProfile      string `toml:"source_profile"`
	TargetProfile      string `toml:"target_profile"`
	ConvertedSuffix    string `toml:"converted_suffix"`
	JPEGQuality        int    `toml:"jpeg_quality"`
}

// Library contains configuration for the Infuse library structure.
type Library struct {
	// UnsortedAlbum is used when a video carries no album tag. Empty keeps the
	// strict behaviour of failing resolution for that asset.
	UnsortedAlbum string `toml:"unsorted_album"`
}

// Permissions holds the masks re-applied after every filesystem mutation.
type Permissions struct {
	DirMode  string `toml:"dir_mode"`
	FileMode string `toml:"file_mode"`
}

// Tools names the external binaries the pipeline shells out to.
type Tools struct {
	FFprobe string `toml:"ffprobe"`
	Magick  string `toml:"magick"`
	Lsof    string `toml:"lsof"`
}

// Workflow contains batch execution settings.
type Workflow struct {
	Recursive          bool `toml:"recursive"`
	ProbeConcurrency   int  `toml:"probe_concurrency"`
	ToolTimeoutSeconds int  `toml:"tool_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mediashelf.
//
// Configuration sections by subsystem:
//   - Paths: input, work (media set), library and log directories
//   - Purposes: media-server / internet-streaming suffix lists and folders
//   - Artwork: poster/fanart naming and colorspace conversion
//   - Library: Infuse library fallbacks
//   - Permissions: modes re-applied after moves
//   - Tools: ffprobe, magick and lsof binaries
//   - Workflow: recursion, probe fan-out and tool timeouts
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Purposes    Purposes    `toml:"purposes"`
	Artwork     Artwork     `toml:"artwork"`
	Library     Library     `toml:"library"`
	Permissions Permissions `toml:"permissions"`
	Tools       Tools       `toml:"tools"`
	Workflow    Workflow    `toml:"workflow"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mediashelf.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a batch run writes into.
// LibraryDir is created on a best-effort basis so scans work while the
// library volume is unmounted.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		_ = os.MkdirAll(c.Paths.LibraryDir, 0o755)
	}
	return nil
}

// FFprobeBinary returns the ffprobe executable used for container probing.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Tools.FFprobe); bin != "" {
		return bin
	}
	return defaultFFprobeBinary
}

// MagickBinary returns the ImageMagick executable used for colorspace conversion.
func (c *Config) MagickBinary() string {
	if bin := strings.TrimSpace(c.Tools.Magick); bin != "" {
		return bin
	}
	return defaultMagickBinary
}

// LsofBinary returns the executable used to detect files held open by other processes.
func (c *Config) LsofBinary() string {
	if bin := strings.TrimSpace(c.Tools.Lsof); bin != "" {
		return bin
	}
	return defaultLsofBinary
}

// ToolTimeout returns the per-invocation timeout for external tools.
func (c *Config) ToolTimeout() time.Duration {
	return time.Duration(c.Workflow.ToolTimeoutSeconds) * time.Second
}

// DirMode returns the parsed directory permission mask.
func (c *Config) DirMode() fs.FileMode {
	mode, err := parseMode(c.Permissions.DirMode)
	if err != nil {
		mode, _ = parseMode(defaultDirMode)
	}
	return mode
}

// FileMode returns the parsed file permission mask.
func (c *Config) FileMode() fs.FileMode {
	mode, err := parseMode(c.Permissions.FileMode)
	if err != nil {
		mode, _ = parseMode(defaultFileMode)
	}
	return mode
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
