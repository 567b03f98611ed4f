// Package preflight provides readiness checks for the filesystem paths and
// external binaries slp2mp4 depends on.
//
// The CLI "slp2mp4 status" command renders these results, and the media
// commands call RunAll before starting ffmpeg so an unwritable staging
// directory fails fast with a readable message instead of a StagingError
// mid-run.
package preflight
