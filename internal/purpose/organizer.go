package purpose

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"mediashelf/internal/config"
	"mediashelf/internal/logging"
	"mediashelf/internal/mediaset"
	"mediashelf/internal/services"
	"mediashelf/internal/textutil"
)

// ErrMultipleMediaServerFiles marks a set with more than one media-server video.
var ErrMultipleMediaServerFiles = errors.New("more than one media-server file")

// Organizer classifies videos by purpose.
type Organizer struct {
	mediaServer []string
	internet    []string
	logger      *slog.Logger
}

// NewOrganizer builds an Organizer from the configured suffix lists.
func NewOrganizer(cfg *config.Config, logger *slog.Logger) *Organizer {
	return NewOrganizerWithSuffixes(cfg.Purposes.MediaServerSuffixes, cfg.Purposes.InternetSuffixes, logger)
}

// NewOrganizerWithSuffixes builds an Organizer from explicit suffix lists.
func NewOrganizerWithSuffixes(mediaServer, internet []string, logger *slog.Logger) *Organizer {
	return &Organizer{
		mediaServer: normalizeSuffixes(mediaServer),
		internet:    normalizeSuffixes(internet),
		logger:      logging.NewComponentLogger(logger, "purpose"),
	}
}

func normalizeSuffixes(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, textutil.NFC(v))
		}
	}
	return out
}

// Organize classifies every group. It returns an error wrapping both
// services.ErrValidation and ErrMultipleMediaServerFiles when any set holds
// two media-server videos; no partial result is returned in that case.
func (o *Organizer) Organize(groups []mediaset.Group) ([]mediaset.MediaSet, error) {
	sets := make([]mediaset.MediaSet, 0, len(groups))
	for _, group := range groups {
		set, err := o.organize(group)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func (o *Organizer) organize(group mediaset.Group) (mediaset.MediaSet, error) {
	logger := o.logger.With(logging.String(logging.FieldMediaSet, group.Name.String()))
	set := mediaset.MediaSet{
		Name:   group.Name,
		Images: append([]*mediaset.SupportedImage(nil), group.Images...),
		Raw:    append([]*mediaset.SupportedVideo(nil), group.Videos...),
		Master: group.Master,
		Album:  group.Album(),
	}

	for _, video := range group.Videos {
		stem := textutil.NFC(video.Stem())
		serverMatch := matchesAny(stem, o.mediaServer)
		internetMatch := matchesAny(stem, o.internet)
		switch {
		case serverMatch && set.MediaServer != nil:
			return mediaset.MediaSet{}, services.Wrap(
				services.ErrValidation,
				"purpose",
				"classify videos",
				fmt.Sprintf("set %q: %s and %s", group.Name.String(), set.MediaServer.Base(), video.Base()),
				ErrMultipleMediaServerFiles,
			)
		case serverMatch:
			if internetMatch {
				logging.WarnWithContext(logger, "video matches both purposes; using media server", "ambiguous_purpose",
					logging.Path(video.Path()),
					logging.String(logging.FieldErrorHint, "make the purpose suffix lists disjoint"),
				)
			}
			set.MediaServer = video
		case internetMatch:
			set.Internet = append(set.Internet, video)
		default:
			logging.Decision(logger, slog.LevelDebug, "video matches no purpose", "purpose", "unmatched", "no configured suffix in filename", logging.Path(video.Path()))
		}
	}

	logger.Info(
		"media set organized",
		logging.Bool("media_server", set.MediaServer != nil),
		logging.Int("internet", len(set.Internet)),
		logging.Int("unmatched", len(set.Unmatched())),
	)
	return set, nil
}

func matchesAny(stem string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.Contains(stem, suffix) {
			return true
		}
	}
	return false
}
