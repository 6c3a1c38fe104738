// Package organizer populates the Infuse library from integrated media sets.
//
// A set lands in {LibraryDir}/{Album}/{Year}/{yyyy-MM-dd Title}/. Album comes
// from the container album tag of the media-server video; year and set name
// come from the date parsed out of the set title, never from container date
// tags.
//
// Three integrators run in order for each set:
//
//   - video: copies the media-server video as {Title}{ext}; a source still
//     held open by an exporter is skipped as success so the next run retries
//   - artwork: copies the poster as {Title}.jpg and the fanart as
//     {Title}{BannerPostfix}.jpg, skipping targets whose size and mtime match
//   - metadata: writes {Title}.xml, always replacing the previous document
//
// A video failure short-circuits artwork and metadata for that set only.
package organizer
