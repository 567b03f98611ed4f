// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata (duration, size)
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns parsed Result
//   - CompareSegments: reports the first segment that cannot be joined to
//     the others with stream copy
//
// The ffmpeg runner never calls this package; it backs the optional
// `slp2mp4 concat --check` pre-flight only.
package ffprobe
