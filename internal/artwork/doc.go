// Package artwork prepares a set's images for the media server.
//
// Normalization turns TIFF and PNG exports into JPEG, then converts the JPEG
// into the target color space through ImageMagick, writing a sibling file so
// the original export is never modified.
//
// Classification picks the poster and the fanart. For two candidates the
// decision is a pure function applying, in order:
//
//  1. a filename containing the poster keyword is the poster
//  2. a filename containing the fanart keyword is the fanart
//  3. the wider aspect ratio is the poster
//  4. the more recent modification time is the poster, ties going to the
//     lexically smaller path
//
// Each returned Pair names the rule that decided it. Larger candidate lists
// are reduced with a knockout over path-sorted candidates.
package artwork
