// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams, format metadata and
//     container tags
//   - Client: executes ffprobe through a procrun.Runner
//
// Helper methods on Result provide case-insensitive tag lookup, the primary
// video codec and frame dimensions. ffprobe reports still images as a single
// video stream, so the same client serves artwork probing.
package ffprobe
