// Package grouper turns classified files into candidate media sets.
//
// Every supported video is probed for its container title tag. Videos that
// share a title form a group; images and the ProRes master whose filename
// starts with that title are attached to it. The title must parse as a set
// name ("yyyy-MM-dd Title"); groups whose title does not are dropped and
// reported, never fatal.
//
// Probing fans out over a bounded errgroup. The first probe failure cancels
// the remaining probes and aborts the grouping call.
package grouper
