// Package fileutil holds the filesystem primitives shared by the set and
// library integrators: moves that survive crossing devices, verified copies
// that keep the source modification time, and the permission normalizer
// re-applied after every mutation.
package fileutil
