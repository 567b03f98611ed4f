package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains executable and directory configuration.
type Paths struct {
	FFmpeg     string `toml:"ffmpeg"`
	StagingDir string `toml:"staging_dir"`
	LogDir     string `toml:"log_dir"`
}

// FFmpeg contains the fixed audio processing settings passed to every re-encode.
type FFmpeg struct {
	// AudioArgs is tokenized with shell quoting rules during normalization.
	AudioArgs string `toml:"audio_args"`
	// Volume is a percentage; 100 leaves the level unchanged.
	Volume int `toml:"volume"`
}

// Runtime contains concurrency settings for CLI batch work.
type Runtime struct {
	Parallel int `toml:"parallel"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for slp2mp4.
//
// Configuration sections by subsystem:
//   - Paths: ffmpeg executable, concat staging parent, log directory
//   - FFmpeg: fixed audio arguments and volume level
//   - Runtime: parallelism for batch probing
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	FFmpeg  FFmpeg  `toml:"ffmpeg"`
	Runtime Runtime `toml:"runtime"`
	Logging Logging `toml:"logging"`

	// audioArgs holds the tokenized form of FFmpeg.AudioArgs.
	audioArgs []string
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/slp2mp4/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded, the ffmpeg binary resolved and the audio arguments tokenized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("slp2mp4.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the configured staging and log directories.
// Empty values mean "use the OS default" and are skipped.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// AudioArgs returns a copy of the tokenized fixed audio arguments.
func (c *Config) AudioArgs() []string {
	return append([]string(nil), c.audioArgs...)
}

// StagingRoot returns the directory concat staging directories are created in.
func (c *Config) StagingRoot() string {
	if strings.TrimSpace(c.Paths.StagingDir) != "" {
		return c.Paths.StagingDir
	}
	return os.TempDir()
}

// FFprobeBinary returns the ffprobe executable shipped next to the configured
// ffmpeg, falling back to PATH lookup by name.
func (c *Config) FFprobeBinary() string {
	name := "ffprobe"
	if filepath.Ext(c.Paths.FFmpeg) == ".exe" {
		name += ".exe"
	}
	if c.Paths.FFmpeg != "" && filepath.IsAbs(c.Paths.FFmpeg) {
		candidate := filepath.Join(filepath.Dir(c.Paths.FFmpeg), name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
