package workflow

import (
	"context"
	"log/slog"

	"mediashelf/internal/artwork"
	"mediashelf/internal/logging"
	"mediashelf/internal/mediaset"
	"mediashelf/internal/services"
)

func (m *Manager) processSet(ctx context.Context, set mediaset.MediaSet) SetResult {
	name := set.Name.String()
	ctx = services.WithMediaSet(ctx, name)
	result := SetResult{Name: name, Unmatched: len(set.Unmatched())}

	integrated, err := m.stages.SetDirs.Integrate(services.WithStage(ctx, StageSetDir), set)
	if err != nil {
		return m.failSet(ctx, result, StageSetDir, err)
	}
	result.Dir = m.stages.SetDirs.SetDir(set.Name)

	pair, err := m.selectArtwork(services.WithStage(ctx, StageArtwork), integrated)
	if err != nil {
		return m.failSet(ctx, result, StageArtwork, err)
	}
	result.Artwork = pair

	report, err := m.stages.Library.Integrate(services.WithStage(ctx, StageLibrary), integrated, pair)
	result.Library = report
	if err != nil {
		return m.failSet(ctx, result, StageLibrary, err)
	}
	return result
}

// selectArtwork normalizes every image of the set and picks poster and
// fanart among the renditions. Two images that normalize to the same file
// (a PNG and the JPEG derived from it) count once.
func (m *Manager) selectArtwork(ctx context.Context, set mediaset.MediaSet) (*artwork.Pair, error) {
	if len(set.Images) == 0 {
		return nil, nil
	}
	logger := logging.WithContext(ctx, m.logger)

	seen := make(map[string]struct{}, len(set.Images))
	candidates := make([]artwork.Candidate, 0, len(set.Images))
	for _, img := range set.Images {
		rendition, err := m.stages.Normalizer.Normalize(ctx, img)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[rendition]; dup {
			continue
		}
		seen[rendition] = struct{}{}
		candidate, err := m.stages.Measurer.Measure(ctx, rendition)
		if err != nil {
			return nil, services.Wrap(services.ErrIO, "workflow", "measure artwork", rendition, err)
		}
		candidates = append(candidates, candidate)
	}

	pair, ok := m.stages.Detector.SelectPair(candidates)
	if !ok {
		return nil, nil
	}
	attrs := []logging.Attr{
		logging.String("poster", pair.Poster.Path),
		logging.Int("candidates", len(candidates)),
	}
	if pair.Fanart != nil {
		attrs = append(attrs, logging.String("fanart", pair.Fanart.Path))
	}
	logging.Decision(logger, slog.LevelInfo, "artwork roles assigned", "artwork_role", "assigned", string(pair.Rule), attrs...)
	return &pair, nil
}

func (m *Manager) failSet(ctx context.Context, result SetResult, stage string, err error) SetResult {
	result.Stage = stage
	result.Err = err
	logging.WarnWithContext(logging.WithContext(services.WithStage(ctx, stage), m.logger), "media set failed; continuing with next set", "set_failed",
		logging.Error(err),
		logging.String("disposition", string(services.FailureDisposition(err))),
		logging.String(logging.FieldImpact, "set left in place for the next run"),
	)
	return result
}
