package metadata

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mediashelf/internal/mediaset"
)

// MediaType is the value of the root type attribute.
const MediaType = "Other"

// Descriptor is the Infuse XML document.
type Descriptor struct {
	XMLName     xml.Name `xml:"media"`
	Type        string   `xml:"type,attr"`
	Title       string   `xml:"title,omitempty"`
	SortTitle   string   `xml:"sorttitle,omitempty"`
	Description string   `xml:"description,omitempty"`
	Artist      string   `xml:"artist,omitempty"`
	Copyright   string   `xml:"copyright,omitempty"`
	Published   string   `xml:"published,omitempty"`
	ReleaseDate string   `xml:"releasedate,omitempty"`
	Studio      string   `xml:"studio,omitempty"`
	Keywords    string   `xml:"keywords,omitempty"`
	Album       string   `xml:"album,omitempty"`
	Producers   string   `xml:"producers,omitempty"`
	Directors   string   `xml:"directors,omitempty"`
}

var fallbacks = struct {
	description, artist, copyright, studio, keywords, producers, directors []string
}{
	description: []string{"description", "comment", "synopsis"},
	artist:      []string{"artist", "album_artist"},
	copyright:   []string{"copyright"},
	studio:      []string{"publisher", "studio"},
	keywords:    []string{"keywords"},
	producers:   []string{"producer", "producers"},
	directors:   []string{"director", "directors"},
}

// Synthesize builds a Descriptor from container tags and the recording date.
// The display title drops the leading "yyyy-MM-dd " while the sort title
// keeps it so sets sort chronologically.
func Synthesize(tags map[string]string, recorded time.Time) Descriptor {
	lower := make(map[string]string, len(tags))
	for k, v := range tags {
		lower[strings.ToLower(k)] = strings.TrimSpace(v)
	}
	lookup := func(keys []string) string {
		for _, k := range keys {
			if v := lower[k]; v != "" {
				return v
			}
		}
		return ""
	}

	rawTitle := lower["title"]
	d := Descriptor{
		Type:        MediaType,
		Title:       mediaset.StripDatePrefix(rawTitle),
		SortTitle:   rawTitle,
		Description: lookup(fallbacks.description),
		Artist:      lookup(fallbacks.artist),
		Copyright:   lookup(fallbacks.copyright),
		Studio:      lookup(fallbacks.studio),
		Keywords:    lookup(fallbacks.keywords),
		Album:       lower["album"],
		Producers:   lookup(fallbacks.producers),
		Directors:   lookup(fallbacks.directors),
	}
	if !recorded.IsZero() {
		d.Published = recorded.Format(mediaset.DateLayout)
		d.ReleaseDate = d.Published
	}
	return d
}

// Marshal renders the descriptor as an indented XML document with header.
func (d Descriptor) Marshal() ([]byte, error) {
	if d.Type == "" {
		d.Type = MediaType
	}
	body, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal descriptor: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Write renders d to path, replacing any existing file.
func Write(path string, d Descriptor, mode fs.FileMode) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".partial-*")
	if err != nil {
		return fmt.Errorf("create descriptor: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write descriptor: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write descriptor: %w", err)
	}
	if mode != 0 {
		if err := os.Chmod(tmpPath, mode); err != nil {
			return fmt.Errorf("chmod descriptor: %w", err)
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("commit descriptor: %w", err)
	}
	return nil
}
