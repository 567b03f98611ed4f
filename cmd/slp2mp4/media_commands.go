package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"slp2mp4/internal/config"
	"slp2mp4/internal/logging"
	"slp2mp4/internal/preflight"
)

func newReencodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reencode <audio>",
		Short: "Re-encode an audio track with the configured arguments and volume",
		Long: `Re-encode an audio track using ffmpeg.audio_args and ffmpeg.volume.

The result is written as "fixed.out" next to the input and its path is
printed on success.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.newRunner(cmd)
			if err != nil {
				return err
			}
			output, err := runner.ReencodeAudio(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ctx.dryRun() {
				fmt.Fprintln(cmd.OutOrStdout(), output)
			}
			return nil
		},
	}
}

func newMergeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <audio> <video> <output>",
		Short: "Mux an audio track into a video, re-encoding the video with libx264",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.newRunner(cmd)
			if err != nil {
				return err
			}
			audio, video, output := args[0], args[1], args[2]
			release, err := ctx.lockOutput(output)
			if err != nil {
				return err
			}
			defer release()

			if err := runner.MergeAudioAndVideo(cmd.Context(), audio, video, output); err != nil {
				return err
			}
			if !ctx.dryRun() {
				fmt.Fprintln(cmd.OutOrStdout(), output)
			}
			return nil
		},
	}
}

func newConcatCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var check bool

	cmd := &cobra.Command{
		Use:   "concat -o <output> <segment>...",
		Short: "Join video segments in order without re-encoding",
		Long: `Join video segments in the given order with the ffmpeg concat demuxer.

Streams are copied, so every segment must share codec, resolution and time
base. Use --check to compare the segments with ffprobe before ffmpeg starts.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := strings.TrimSpace(outputPath)
			if output == "" {
				return errors.New("an output path is required (-o)")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := requirePreflight(cfg); err != nil {
				return err
			}
			if check {
				if err := checkSegments(cmd, ctx, args); err != nil {
					return err
				}
			}

			runner, err := ctx.newRunner(cmd)
			if err != nil {
				return err
			}
			release, err := ctx.lockOutput(output)
			if err != nil {
				return err
			}
			defer release()

			if err := runner.ConcatVideos(cmd.Context(), args, output); err != nil {
				return err
			}
			if !ctx.dryRun() {
				fmt.Fprintln(cmd.OutOrStdout(), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination video file")
	cmd.Flags().BoolVar(&check, "check", false, "Verify segments are stream-copy compatible with ffprobe first")
	return cmd
}

// requirePreflight fails fast when the staging root cannot hold a manifest.
func requirePreflight(cfg *config.Config) error {
	failed := preflight.Failed(preflight.RunAll(cfg))
	if len(failed) == 0 {
		return nil
	}
	details := make([]string, 0, len(failed))
	for _, r := range failed {
		details = append(details, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(details, "; "))
}

// lockOutput takes an advisory lock next to output so two slp2mp4 processes
// never write the same file. The returned func releases it.
func (c *commandContext) lockOutput(output string) (func(), error) {
	if c.dryRun() {
		return func() {}, nil
	}
	lockPath := output + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock output %s: %w", output, err)
	}
	if !ok {
		return nil, fmt.Errorf("output %s is being written by another slp2mp4 process (lock %s)", output, lockPath)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			if logger, logErr := c.ensureLogger(); logErr == nil {
				logging.WarnWithContext(logger, "failed to release output lock", "output_lock_release_failed",
					logging.String("path", lockPath),
					logging.Error(err),
				)
			}
			return
		}
		_ = os.Remove(lockPath)
	}, nil
}
