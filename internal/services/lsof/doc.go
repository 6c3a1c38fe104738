// Package lsof answers whether another process currently holds a file open.
//
// The probe is point-in-time: an exporter may open the file right after the
// check returns. Callers treat a tool failure as "in use" so a broken probe
// never lets a half-written export through.
package lsof
