package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"slp2mp4/internal/deps"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateRuntime(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.FFmpeg == "" {
		return errors.New("paths.ffmpeg must be set")
	}
	if _, err := deps.ResolveFFmpeg(c.Paths.FFmpeg); err != nil {
		defaultPath, pathErr := DefaultConfigPath()
		if pathErr != nil {
			defaultPath = "~/.config/slp2mp4/config.toml"
		}
		return fmt.Errorf("paths.ffmpeg: %w. Install ffmpeg, set SLP2MP4_FFMPEG, or edit %s (create with 'slp2mp4 config init')", err, defaultPath)
	}
	if c.Paths.StagingDir != "" && !filepath.IsAbs(c.Paths.StagingDir) {
		return errors.New("paths.staging_dir must be absolute")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.Volume < 0 {
		return errors.New("ffmpeg.volume must be >= 0")
	}
	return nil
}

func (c *Config) validateRuntime() error {
	if c.Runtime.Parallel < 0 {
		return errors.New("runtime.parallel must be >= 0 (0 uses every CPU)")
	}
	return nil
}
