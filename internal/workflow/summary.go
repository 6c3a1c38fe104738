package workflow

import (
	"time"

	"mediashelf/internal/artwork"
	"mediashelf/internal/classifier"
	"mediashelf/internal/organizer"
)

// SetResult records what happened to one media set.
type SetResult struct {
	Name string
	// Dir is the set directory in the work area; empty when the move failed.
	Dir       string
	Unmatched int
	Artwork   *artwork.Pair
	Library   organizer.Report
	// Stage names the step that failed when Err is set.
	Stage string
	Err   error
}

// Published reports whether the set's video is in the library.
func (r SetResult) Published() bool {
	if r.Err != nil {
		return false
	}
	return r.Library.Video == organizer.OutcomeCopied || r.Library.Video == organizer.OutcomeUnchanged
}

// Summary aggregates the outcome of one batch run.
type Summary struct {
	RunID   string
	Root    string
	Started time.Time
	Elapsed time.Duration

	Classified map[classifier.Class]int
	Ignored    map[classifier.Reason]int
	Untagged   int
	Rejected   int
	Unassigned int

	Sets []SetResult
}

func (s *Summary) absorb(plan Plan) {
	s.Classified = classifier.Count(plan.Entries)
	s.Ignored = make(map[classifier.Reason]int)
	for _, entry := range plan.Entries {
		if entry.Class == classifier.ClassIgnored {
			s.Ignored[entry.Reason]++
		}
	}
	s.Untagged = len(plan.Grouping.Untagged)
	s.Rejected = len(plan.Grouping.Rejected)
	s.Unassigned = len(plan.Grouping.Unassigned)
}

// Published counts sets whose video reached the library.
func (s Summary) Published() int {
	n := 0
	for _, set := range s.Sets {
		if set.Published() {
			n++
		}
	}
	return n
}

// Deferred counts sets skipped because their video was still open.
func (s Summary) Deferred() int {
	n := 0
	for _, set := range s.Sets {
		if set.Err == nil && set.Library.Video == organizer.OutcomeInUse {
			n++
		}
	}
	return n
}

// Failed counts sets that stopped with an error.
func (s Summary) Failed() int {
	n := 0
	for _, set := range s.Sets {
		if set.Err != nil {
			n++
		}
	}
	return n
}
