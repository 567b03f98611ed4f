// Package main hosts the slp2mp4 CLI entrypoint and command graph.
//
// Each media command maps onto one ffmpeg.Runner operation. This package owns
// the policy around those calls: configuration loading, logger setup, output
// locking, dry runs and the optional ffprobe segment check. The runner itself
// stays free of CLI concerns.
package main
