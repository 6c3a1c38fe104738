package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePurposes(); err != nil {
		return err
	}
	if err := c.validateArtwork(); err != nil {
		return err
	}
	if err := c.validatePermissions(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		return errors.New("paths.input_dir must be set")
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return errors.New("paths.work_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	if c.Paths.InputDir == c.Paths.WorkDir {
		return errors.New("paths.work_dir must differ from paths.input_dir")
	}
	return nil
}

func (c *Config) validatePurposes() error {
	if len(c.Purposes.MediaServerSuffixes) == 0 {
		return errors.New("purposes.media_server_suffixes must contain at least one suffix")
	}
	if len(c.Purposes.InternetSuffixes) == 0 {
		return errors.New("purposes.internet_suffixes must contain at least one suffix")
	}
	if c.Purposes.MediaServerFolder == c.Purposes.InternetFolder {
		return fmt.Errorf("purposes.media_server_folder and purposes.internet_folder must differ (both %q)", c.Purposes.MediaServerFolder)
	}
	for _, folder := range []string{c.Purposes.MediaServerFolder, c.Purposes.InternetFolder} {
		if strings.ContainsAny(folder, `/\`) {
			return fmt.Errorf("purpose folder %q must be a single path segment", folder)
		}
	}
	return nil
}

func (c *Config) validateArtwork() error {
	if c.Artwork.PosterKeyword == c.Artwork.FanartKeyword {
		return fmt.Errorf("artwork.poster_keyword and artwork.fanart_keyword must differ (both %q)", c.Artwork.PosterKeyword)
	}
	if (c.Artwork.SourceProfile == "") != (c.Artwork.TargetProfile == "") {
		return errors.New("artwork.source_profile and artwork.target_profile must be set together")
	}
	return nil
}

func (c *Config) validatePermissions() error {
	if _, err := parseMode(c.Permissions.DirMode); err != nil {
		return fmt.Errorf("permissions.dir_mode: %w", err)
	}
	if _, err := parseMode(c.Permissions.FileMode); err != nil {
		return fmt.Errorf("permissions.file_mode: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
