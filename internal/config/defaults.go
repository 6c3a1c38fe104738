package config

const (
	defaultConfigPath         = "~/.config/mediashelf/config.toml"
	defaultInputDir           = "~/Movies/Exports"
	defaultWorkDir            = "~/.local/share/mediashelf/sets"
	defaultLibraryDir         = "~/library/infuse"
	defaultLogDir             = "~/.local/share/mediashelf/logs"
	defaultMediaServerFolder  = "Medienserver"
	defaultInternetFolder     = "Internet"
	defaultPosterKeyword      = "poster"
	defaultFanartKeyword      = "fanart"
	defaultBannerPostfix      = "-fanart"
	defaultPreferredExtension = ".jpg"
	defaultConvertedSuffix    = "-srgb"
	defaultJPEGQuality        = 92
	defaultDirMode            = "0775"
	defaultFileMode           = "0664"
	defaultFFprobeBinary      = "ffprobe"
	defaultMagickBinary       = "magick"
	defaultLsofBinary         = "lsof"
	defaultProbeConcurrency   = 4
	defaultToolTimeoutSeconds = 120
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:   defaultInputDir,
			WorkDir:    defaultWorkDir,
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		Purposes: Purposes{
			MediaServerSuffixes: []string{"-Medienserver"},
			InternetSuffixes:    []string{"-Internet"},
			MediaServerFolder:   defaultMediaServerFolder,
			InternetFolder:      defaultInternetFolder,
		},
		Artwork: Artwork{
			PosterKeyword:      defaultPosterKeyword,
			FanartKeyword:      defaultFanartKeyword,
			BannerPostfix:      defaultBannerPostfix,
			PreferredExtension: defaultPreferredExtension,
			ConvertedSuffix:    defaultConvertedSuffix,
			JPEGQuality:        defaultJPEGQuality,
		},
		Permissions: Permissions{
			DirMode:  defaultDirMode,
			FileMode: defaultFileMode,
		},
		Tools: Tools{
			FFprobe: defaultFFprobeBinary,
			Magick:  defaultMagickBinary,
			Lsof:    defaultLsofBinary,
		},
		Workflow: Workflow{
			ProbeConcurrency:   defaultProbeConcurrency,
			ToolTimeoutSeconds: defaultToolTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
