package mediaset

// Group is one grouping result: every file that shares a title tag.
type Group struct {
	Name   Name
	Videos []*SupportedVideo
	Images []*SupportedImage
	Master *Masterfile
	// Albums maps video paths to their container album tag.
	Albums map[string]string
}

// Album returns the first non-empty album tag among the group's videos.
func (g Group) Album() string {
	for _, v := range g.Videos {
		if album := g.Albums[v.Path()]; album != "" {
			return album
		}
	}
	return ""
}

// MediaSet is a group after its videos were split by purpose. Raw keeps
// every video of the set, including those that matched no purpose.
type MediaSet struct {
	Name        Name
	MediaServer *SupportedVideo
	Internet    []*SupportedVideo
	Images      []*SupportedImage
	Raw         []*SupportedVideo
	Master      *Masterfile
	Album       string
}

// Unmatched returns the raw videos that belong to neither purpose bucket.
func (s *MediaSet) Unmatched() []*SupportedVideo {
	claimed := make(map[*SupportedVideo]struct{}, len(s.Internet)+1)
	if s.MediaServer != nil {
		claimed[s.MediaServer] = struct{}{}
	}
	for _, v := range s.Internet {
		claimed[v] = struct{}{}
	}
	var out []*SupportedVideo
	for _, v := range s.Raw {
		if _, ok := claimed[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

// FileCount returns the number of distinct files the set owns.
func (s *MediaSet) FileCount() int {
	n := len(s.Raw) + len(s.Images)
	if s.Master != nil {
		n++
	}
	return n
}
