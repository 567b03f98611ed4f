package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/google/shlex"

	"slp2mp4/internal/deps"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeFFmpeg(); err != nil {
		return err
	}
	c.normalizeRuntime()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	c.Paths.FFmpeg = strings.TrimSpace(c.Paths.FFmpeg)
	if c.Paths.FFmpeg == "" {
		if value, ok := os.LookupEnv("SLP2MP4_FFMPEG"); ok {
			c.Paths.FFmpeg = strings.TrimSpace(value)
		}
	}
	if c.Paths.FFmpeg == "" {
		c.Paths.FFmpeg = defaultFFmpegBinary
	}
	if strings.HasPrefix(c.Paths.FFmpeg, "~") {
		if c.Paths.FFmpeg, err = expandPath(c.Paths.FFmpeg); err != nil {
			return fmt.Errorf("paths.ffmpeg: %w", err)
		}
	}
	// Unresolvable binaries are reported by Validate with the configured value.
	if resolved, err := deps.ResolveFFmpeg(c.Paths.FFmpeg); err == nil {
		c.Paths.FFmpeg = resolved
	}
	if c.Paths.StagingDir, err = expandPath(strings.TrimSpace(c.Paths.StagingDir)); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFFmpeg() error {
	tokens, err := shlex.Split(c.FFmpeg.AudioArgs)
	if err != nil {
		return fmt.Errorf("ffmpeg.audio_args: %w", err)
	}
	c.audioArgs = tokens
	return nil
}

func (c *Config) normalizeRuntime() {
	if c.Runtime.Parallel == 0 {
		c.Runtime.Parallel = runtime.NumCPU()
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
