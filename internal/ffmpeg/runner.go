package ffmpeg

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"slp2mp4/internal/logging"
)

// Operation names used in errors and log fields.
const (
	OpReencode = "reencode"
	OpMerge    = "merge"
	OpConcat   = "concat"
)

// Config holds the resolved settings a Runner needs. It is copied on
// construction and never modified afterwards.
type Config struct {
	// Binary is the ffmpeg executable path.
	Binary string
	// AudioArgs are inserted verbatim between the input and the volume filter.
	AudioArgs []string
	// Volume is a percentage; the filter receives Volume/100.
	Volume float64
	// TempDir is the parent for concat staging directories. Empty uses os.TempDir.
	TempDir string
}

// Runner executes pipeline operations against one ffmpeg binary. A Runner is
// safe for concurrent use as long as callers pick distinct output paths.
type Runner struct {
	cfg    Config
	logger *slog.Logger
	run    CommandRunner
	stdout io.Writer
	stderr io.Writer
}

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for invocation events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logging.NewComponentLogger(logger, "ffmpeg")
	}
}

// WithCommandRunner replaces process execution, e.g. with a fake in tests or
// a printer for dry runs.
func WithCommandRunner(run CommandRunner) Option {
	return func(r *Runner) {
		if run != nil {
			r.run = run
		}
	}
}

// WithOutput sets where ffmpeg's stdout and stderr are copied. Nil discards.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// New constructs a Runner.
func New(cfg Config, opts ...Option) *Runner {
	cfg.Binary = strings.TrimSpace(cfg.Binary)
	if cfg.Binary == "" {
		cfg.Binary = "ffmpeg"
	}
	cfg.AudioArgs = append([]string(nil), cfg.AudioArgs...)

	r := &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(nil, "ffmpeg"),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.run == nil {
		r.run = execCommandRunner(r.stdout, r.stderr)
	}
	return r
}

// Config returns a copy of the runner configuration.
func (r *Runner) Config() Config {
	cfg := r.cfg
	cfg.AudioArgs = append([]string(nil), r.cfg.AudioArgs...)
	return cfg
}

// ReencodeAudio re-encodes audioPath with the configured audio arguments and
// volume, writing ReencodedName next to it. It returns the written path.
func (r *Runner) ReencodeAudio(ctx context.Context, audioPath string) (string, error) {
	outputPath := ReencodedPath(audioPath)
	if err := r.invoke(ctx, OpReencode, reencodeArgs(r.cfg, audioPath, outputPath)); err != nil {
		return "", err
	}
	return outputPath, nil
}

// MergeAudioAndVideo muxes audioPath into videoPath, copying the audio stream
// and re-encoding the video with libx264 at even dimensions. The output
// container must accept the audio stream as-is; nothing is checked up front.
func (r *Runner) MergeAudioAndVideo(ctx context.Context, audioPath, videoPath, outputPath string) error {
	return r.invoke(ctx, OpMerge, mergeArgs(audioPath, videoPath, outputPath))
}

// ConcatVideos joins videoPaths, in order, into outputPath with the concat
// demuxer and stream copy. All inputs must share codec, resolution and time
// base; mismatches surface as ffmpeg failures.
func (r *Runner) ConcatVideos(ctx context.Context, videoPaths []string, outputPath string) error {
	if len(videoPaths) == 0 {
		return &StagingError{Op: OpConcat, Err: ErrNoSegments}
	}
	return r.withManifest(OpConcat, videoPaths, func(manifestPath string) error {
		return r.invoke(ctx, OpConcat, concatArgs(manifestPath, outputPath))
	})
}

func (r *Runner) invoke(ctx context.Context, op string, args argList) error {
	if ctx == nil {
		ctx = context.Background()
	}
	correlationID, ok := logging.CorrelationIDFromContext(ctx)
	if !ok {
		correlationID = uuid.NewString()
		ctx = logging.WithCorrelationID(ctx, correlationID)
	}
	logger := logging.WithContext(ctx, r.logger).With(logging.String(logging.FieldOperation, op))
	argv := args.flatten()

	if err := ctx.Err(); err != nil {
		return newInvocationError(op, r.cfg.Binary, argv, correlationID, err)
	}

	logger.Debug("ffmpeg invocation starting",
		logging.String(logging.FieldEventType, "ffmpeg_start"),
		logging.String("binary", r.cfg.Binary),
		logging.Strings("groups", args.names()),
		logging.Strings("args", argv),
	)

	start := time.Now()
	err := r.run(ctx, r.cfg.Binary, argv...)
	elapsed := time.Since(start)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = errors.Join(err, ctxErr)
		}
		invErr := newInvocationError(op, r.cfg.Binary, argv, correlationID, err)
		logger.Debug("ffmpeg invocation failed",
			logging.String(logging.FieldEventType, "ffmpeg_failed"),
			logging.Int("exit_code", invErr.ExitCode),
			logging.Duration("elapsed", elapsed),
			logging.Error(err),
		)
		return invErr
	}

	logger.Info("ffmpeg invocation finished",
		logging.String(logging.FieldEventType, "ffmpeg_complete"),
		logging.String("output", argv[len(argv)-1]),
		logging.Duration("elapsed", elapsed.Round(time.Millisecond)),
	)
	return nil
}
