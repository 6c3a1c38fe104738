// Package metadata synthesizes the XML sidecar Infuse reads next to a video.
//
// The descriptor is derived from the container tags of the media-server
// video plus the recording date parsed from the set name. Tag lookup is
// case-insensitive with a short fallback chain per field; fields with no
// source are omitted from the document.
package metadata
