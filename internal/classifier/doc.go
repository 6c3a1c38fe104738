// Package classifier scans an export directory and tags every entry as a
// supported video, a supported image, a ProRes master or an ignored file.
//
// Ignored entries carry a reason code so scans can be previewed and so a file
// that is still being written is picked up again on the next run. Only a
// failed directory read aborts the scan; everything else degrades the single
// entry to Ignored.
package classifier
