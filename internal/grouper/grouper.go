package grouper

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"mediashelf/internal/classifier"
	"mediashelf/internal/config"
	"mediashelf/internal/logging"
	"mediashelf/internal/media/ffprobe"
	"mediashelf/internal/mediaset"
	"mediashelf/internal/procrun"
	"mediashelf/internal/services"
	"mediashelf/internal/textutil"
)

// DefaultConcurrency bounds title probing when no limit is configured.
const DefaultConcurrency = 4

// Rejection records a title that did not parse as a set name.
type Rejection struct {
	Title  string
	Videos []*mediaset.SupportedVideo
	Reason string
}

// Result is the outcome of one grouping call.
type Result struct {
	Groups []mediaset.Group
	// Untagged lists videos excluded for a missing or empty title tag.
	Untagged []*mediaset.SupportedVideo
	Rejected []Rejection
	// Unassigned lists images that matched no group.
	Unassigned []*mediaset.SupportedImage
}

// Grouper groups classified entries by container title.
type Grouper struct {
	prober      ffprobe.Prober
	concurrency int
	logger      *slog.Logger
}

// NewGrouper constructs a grouper backed by the configured ffprobe binary.
func NewGrouper(cfg *config.Config, runner procrun.Runner, logger *slog.Logger) *Grouper {
	return NewGrouperWithDependencies(ffprobe.NewClient(runner, cfg.FFprobeBinary()), cfg.Workflow.ProbeConcurrency, logger)
}

// NewGrouperWithDependencies allows injecting collaborators (used in tests).
func NewGrouperWithDependencies(prober ffprobe.Prober, concurrency int, logger *slog.Logger) *Grouper {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Grouper{
		prober:      prober,
		concurrency: concurrency,
		logger:      logging.NewComponentLogger(logger, "grouper"),
	}
}

type videoTags struct {
	title string
	album string
}

// Group probes every video entry and assembles the media set candidates.
// Groups are returned sorted by set name.
func (g *Grouper) Group(ctx context.Context, entries []classifier.Entry) (Result, error) {
	logger := logging.WithContext(ctx, g.logger)

	var (
		videos  []*mediaset.SupportedVideo
		images  []*mediaset.SupportedImage
		masters []*mediaset.Masterfile
	)
	for _, entry := range entries {
		switch entry.Class {
		case classifier.ClassVideo:
			videos = append(videos, entry.Video)
		case classifier.ClassImage:
			images = append(images, entry.Image)
		case classifier.ClassMaster:
			masters = append(masters, entry.Master)
		}
	}
	mediaset.SortVideos(videos)
	mediaset.SortImages(images)
	slices.SortFunc(masters, func(a, b *mediaset.Masterfile) int { return strings.Compare(a.Path(), b.Path()) })

	tags, err := g.probeTitles(ctx, videos)
	if err != nil {
		return Result{}, err
	}

	var result Result
	byTitle := make(map[string][]int)
	var titles []string
	for i, video := range videos {
		title := tags[i].title
		if title == "" {
			result.Untagged = append(result.Untagged, video)
			logging.WarnWithContext(logger, "video has no title tag; excluded from grouping", "missing_title_tag",
				logging.Path(video.Path()),
				logging.String(logging.FieldErrorHint, "set the title metadata in the export preset"),
				logging.String(logging.FieldImpact, "video stays in the input directory"),
			)
			continue
		}
		if _, ok := byTitle[title]; !ok {
			titles = append(titles, title)
		}
		byTitle[title] = append(byTitle[title], i)
	}

	names := make(map[string]mediaset.Name, len(titles))
	var accepted []string
	for _, title := range titles {
		name, err := mediaset.ParseName(title)
		if err != nil {
			rejected := Rejection{Title: title, Reason: err.Error()}
			for _, i := range byTitle[title] {
				rejected.Videos = append(rejected.Videos, videos[i])
			}
			result.Rejected = append(result.Rejected, rejected)
			logging.WarnWithContext(logger, "title is not a valid set name; group dropped", "invalid_set_name",
				logging.String("title", title),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "titles must look like \"yyyy-MM-dd Title\""),
				logging.String(logging.FieldImpact, "videos stay in the input directory"),
			)
			continue
		}
		names[title] = name
		accepted = append(accepted, title)
	}

	imageOwner := assignByLongestPrefix(accepted, len(images), func(i int) string { return images[i].Base() })
	masterOwner := assignByLongestPrefix(accepted, len(masters), func(i int) string { return masters[i].Base() })

	for _, title := range accepted {
		group := mediaset.Group{Name: names[title], Albums: make(map[string]string)}
		for _, i := range byTitle[title] {
			group.Videos = append(group.Videos, videos[i])
			if album := tags[i].album; album != "" {
				group.Albums[videos[i].Path()] = album
			}
		}
		for i, image := range images {
			if imageOwner[i] == title {
				group.Images = append(group.Images, image)
			}
		}
		for i, master := range masters {
			if masterOwner[i] == title {
				group.Master = master
				break
			}
		}
		result.Groups = append(result.Groups, group)
		logger.Info(
			"media set grouped",
			logging.String(logging.FieldMediaSet, group.Name.String()),
			logging.Int("videos", len(group.Videos)),
			logging.Int("images", len(group.Images)),
			logging.Bool("master", group.Master != nil),
		)
	}
	for i, image := range images {
		if imageOwner[i] == "" {
			result.Unassigned = append(result.Unassigned, image)
		}
	}

	slices.SortFunc(result.Groups, func(a, b mediaset.Group) int {
		return strings.Compare(a.Name.String(), b.Name.String())
	})
	return result, nil
}

func (g *Grouper) probeTitles(ctx context.Context, videos []*mediaset.SupportedVideo) ([]videoTags, error) {
	tags := make([]videoTags, len(videos))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, video := range videos {
		eg.Go(func() error {
			result, err := g.prober.Probe(egctx, video.Path())
			if err != nil {
				return services.Wrap(services.ErrExternalTool, "grouper", "read title tag", video.Base(), err)
			}
			tags[i] = videoTags{
				title: textutil.NFC(result.Title()),
				album: textutil.NFC(result.Album()),
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("probe titles: %w", err)
	}
	return tags, nil
}

// assignByLongestPrefix maps each of n filenames to the longest title it
// starts with, so "2024-06-05 Sunset Walk.jpg" lands in "2024-06-05 Sunset
// Walk" rather than "2024-06-05 Sunset" when both sets exist.
func assignByLongestPrefix(titles []string, n int, base func(int) string) []string {
	owners := make([]string, n)
	for i := range n {
		name := base(i)
		for _, title := range titles {
			if textutil.HasPrefixNFC(name, title) && len(title) > len(owners[i]) {
				owners[i] = title
			}
		}
	}
	return owners
}
