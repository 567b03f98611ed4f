package ffmpeg

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"slp2mp4/internal/logging"
)

const (
	// StagingPrefix prefixes every concat staging directory name.
	StagingPrefix = "slp2mp4-concat-"
	// ManifestName is the concat demuxer list written inside the staging directory.
	ManifestName = "concat.txt"
)

// withManifest stages a manifest for videos in a fresh directory, calls fn
// with its path, and removes the directory however fn returns.
func (r *Runner) withManifest(op string, videos []string, fn func(manifestPath string) error) (err error) {
	content, err := BuildManifest(videos)
	if err != nil {
		return &StagingError{Op: op, Err: err}
	}

	dir, err := os.MkdirTemp(r.cfg.TempDir, StagingPrefix+"*")
	if err != nil {
		return &StagingError{Op: op, Path: r.cfg.TempDir, Err: err}
	}
	defer func() {
		rmErr := os.RemoveAll(dir)
		if rmErr == nil {
			return
		}
		cleanupErr := &CleanupError{Path: dir, Err: rmErr}
		if err != nil {
			err = errors.Join(err, cleanupErr)
			return
		}
		logging.WarnWithContext(r.logger, "failed to remove concat staging directory", "staging_cleanup_failed",
			logging.String(logging.FieldOperation, op),
			logging.String("path", dir),
			logging.Error(rmErr),
			logging.String(logging.FieldErrorHint, "run 'slp2mp4 staging clean' or check staging_dir permissions"),
			logging.String(logging.FieldImpact, "disk space not reclaimed"),
		)
	}()

	manifestPath := filepath.Join(dir, ManifestName)
	if writeErr := os.WriteFile(manifestPath, []byte(content), 0o644); writeErr != nil {
		return &StagingError{Op: op, Path: manifestPath, Err: writeErr}
	}

	return fn(manifestPath)
}

// BuildManifest renders the concat demuxer list for videos: one
// "file '<absolute path>'" line per input in the given order, joined by
// newlines without a trailing one.
func BuildManifest(videos []string) (string, error) {
	lines := make([]string, 0, len(videos))
	for _, video := range videos {
		resolved, err := resolvePath(video)
		if err != nil {
			return "", err
		}
		lines = append(lines, "file "+quoteManifestPath(resolved))
	}
	return strings.Join(lines, "\n"), nil
}

// resolvePath makes path absolute and follows symlinks when it can. Missing
// files are not an error; ffmpeg reports them.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// quoteManifestPath wraps path in single quotes, escaping embedded quotes the
// way the concat demuxer expects ('\'').
func quoteManifestPath(path string) string {
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}
