// Package ffmpeg drives the ffmpeg command-line tool for the three pipeline
// operations: re-encoding a dumped audio track with a volume adjustment,
// merging that audio into a rendered video, and losslessly concatenating
// same-encoding video segments.
//
// Each operation assembles an ordered list of named argument groups and
// flattens it once, right before the process starts. ffmpeg's grammar is
// positional (inputs before the per-stream options that refer to them, the
// output path last), so group order per operation is fixed:
//
//	reencode: -y | -i audio | <audio_args> | -filter:a volume='v' | <dir>/fixed.out
//	merge:    -y | -i audio | -i video | -c:a copy | -c:v libx264 | -vf scale | -crf 24 | -avoid_negative_ts make_zero | -xerror | output
//	concat:   -y | -f concat | -safe 0 | -i manifest | -c copy | -xerror | output
//
// Concatenation stages a concat.txt manifest inside a fresh temporary
// directory that is removed on every exit path, including failed and
// cancelled invocations.
//
// Any nonzero exit is returned as an *InvocationError (errors.Is ErrInvocation)
// carrying the operation, argv, exit status and a stderr tail. Failing to
// stage the manifest is a *StagingError (errors.Is ErrStaging). Nothing is
// retried.
package ffmpeg
