// Package purpose splits each grouped set's videos into the media-server
// variant (at most one) and the internet-streaming variants (any number) by
// matching filename stems against two configured suffix lists.
//
// A second media-server match anywhere in the batch fails the whole call
// before any file is touched.
package purpose
