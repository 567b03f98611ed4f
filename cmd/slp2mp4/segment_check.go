package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"slp2mp4/internal/logging"
	"slp2mp4/internal/media/ffprobe"
)

// checkSegments inspects every segment with ffprobe, at most runtime.parallel
// at a time, prints a summary table and reports the first incompatibility.
func checkSegments(cmd *cobra.Command, ctx *commandContext, segments []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	binary := cfg.FFprobeBinary()

	results := make([]ffprobe.Result, len(segments))
	group, groupCtx := errgroup.WithContext(cmd.Context())
	group.SetLimit(max(cfg.Runtime.Parallel, 1))
	for i, segment := range segments {
		group.Go(func() error {
			result, err := ffprobe.Inspect(groupCtx, binary, segment)
			if err != nil {
				return fmt.Errorf("check segment %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	rows := make([][]string, 0, len(segments))
	for i, result := range results {
		row := []string{strconv.Itoa(i), filepath.Base(segments[i]), "-", "-", "-", formatSeconds(result.DurationSeconds())}
		if video, ok := result.PrimaryVideo(); ok {
			row[2] = video.CodecName
			row[3] = fmt.Sprintf("%dx%d", video.Width, video.Height)
			row[4] = video.TimeBase
		}
		rows = append(rows, row)
	}
	fmt.Fprint(cmd.ErrOrStderr(), renderTable(
		[]string{"#", "Segment", "Codec", "Resolution", "Time base", "Duration"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignRight},
	))
	fmt.Fprintln(cmd.ErrOrStderr())

	if err := ffprobe.CompareSegments(results); err != nil {
		return fmt.Errorf("concat check: %w", err)
	}
	logger.Info("segments are stream-copy compatible",
		logging.Int("segments", len(segments)),
		logging.String(logging.FieldEventType, "concat_check_passed"),
	)
	return nil
}

func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return strconv.FormatFloat(seconds, 'f', 2, 64) + "s"
}
