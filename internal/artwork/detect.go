package artwork

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	"mediashelf/internal/textutil"
)

// Rule names the tie-break that decided a Pair.
type Rule string

const (
	ByFilenameKeyword  Rule = "filename_keyword"
	ByAspectRatio      Rule = "aspect_ratio"
	ByModificationTime Rule = "modification_time"
	// BySingleCandidate marks a pair built from a lone image.
	BySingleCandidate Rule = "single_candidate"
)

// Candidate is an image considered for poster or fanart.
type Candidate struct {
	Path    string
	Width   int
	Height  int
	ModTime time.Time
}

// Stem returns the filename without extension.
func (c Candidate) Stem() string {
	base := filepath.Base(c.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (c Candidate) hasDimensions() bool {
	return c.Width > 0 && c.Height > 0
}

// Pair is the chosen poster and fanart. Fanart is nil when only one image
// was available.
type Pair struct {
	Poster *Candidate
	Fanart *Candidate
	Rule   Rule
}

// Detector applies the ordered poster/fanart rules with configurable keywords.
type Detector struct {
	PosterKeyword string
	FanartKeyword string
}

// DefaultDetector uses the "poster" and "fanart" keywords.
var DefaultDetector = Detector{PosterKeyword: "poster", FanartKeyword: "fanart"}

// Detect assigns poster and fanart between a and b using DefaultDetector.
func Detect(a, b Candidate) Pair {
	return DefaultDetector.Detect(a, b)
}

// Detect assigns poster and fanart between a and b. The result does not
// depend on argument order.
func (d Detector) Detect(a, b Candidate) Pair {
	if d.PosterKeyword != "" {
		aHas, bHas := textutil.ContainsFold(a.Stem(), d.PosterKeyword), textutil.ContainsFold(b.Stem(), d.PosterKeyword)
		if aHas && !bHas {
			return pair(a, b, ByFilenameKeyword)
		}
		if bHas && !aHas {
			return pair(b, a, ByFilenameKeyword)
		}
	}
	if d.FanartKeyword != "" {
		aHas, bHas := textutil.ContainsFold(a.Stem(), d.FanartKeyword), textutil.ContainsFold(b.Stem(), d.FanartKeyword)
		if aHas && !bHas {
			return pair(b, a, ByFilenameKeyword)
		}
		if bHas && !aHas {
			return pair(a, b, ByFilenameKeyword)
		}
	}
	if a.hasDimensions() && b.hasDimensions() {
		// Cross-multiplied to compare w/h ratios without rounding.
		left, right := a.Width*b.Height, b.Width*a.Height
		if left > right {
			return pair(a, b, ByAspectRatio)
		}
		if right > left {
			return pair(b, a, ByAspectRatio)
		}
	}
	switch {
	case a.ModTime.After(b.ModTime):
		return pair(a, b, ByModificationTime)
	case b.ModTime.After(a.ModTime):
		return pair(b, a, ByModificationTime)
	case a.Path <= b.Path:
		return pair(a, b, ByModificationTime)
	default:
		return pair(b, a, ByModificationTime)
	}
}

func pair(poster, fanart Candidate, rule Rule) Pair {
	return Pair{Poster: &poster, Fanart: &fanart, Rule: rule}
}

// SelectPair reduces any number of candidates to one Pair. Every candidate
// meets every other once; the one that takes the poster role most often
// becomes the poster candidate and the one that takes it least often among
// the rest becomes the fanart candidate, ties going to the smaller path.
// The returned Pair is Detect applied to those two, so its roles and Rule
// always agree with the pairwise rules. It reports false when there are no
// candidates.
func (d Detector) SelectPair(candidates []Candidate) (Pair, bool) {
	switch len(candidates) {
	case 0:
		return Pair{}, false
	case 1:
		only := candidates[0]
		return Pair{Poster: &only, Rule: BySingleCandidate}, true
	case 2:
		return d.Detect(candidates[0], candidates[1]), true
	}

	sorted := slices.Clone(candidates)
	slices.SortFunc(sorted, func(a, b Candidate) int { return strings.Compare(a.Path, b.Path) })

	// Detect is not transitive once an image lacks dimensions, so a
	// knockout could depend on the order of the matches.
	wins := make([]int, len(sorted))
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			if d.Detect(sorted[i], sorted[j]).Poster.Path == sorted[i].Path {
				wins[i]++
			} else {
				wins[j]++
			}
		}
	}

	posterIdx := 0
	for i := range sorted {
		if wins[i] > wins[posterIdx] {
			posterIdx = i
		}
	}
	fanartIdx := -1
	for i := range sorted {
		if i == posterIdx {
			continue
		}
		if fanartIdx < 0 || wins[i] < wins[fanartIdx] {
			fanartIdx = i
		}
	}
	return d.Detect(sorted[posterIdx], sorted[fanartIdx]), true
}

// SelectPair applies DefaultDetector.SelectPair.
func SelectPair(candidates []Candidate) (Pair, bool) {
	return DefaultDetector.SelectPair(candidates)
}
