package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"slp2mp4/internal/config"
	"slp2mp4/internal/ffmpeg"
	"slp2mp4/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	dryRunFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, dryRunFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		dryRunFlag:   dryRunFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.ToLower(strings.TrimSpace(*c.logLevelFlag)); level != "" {
				cfg.Logging.Level = level
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) dryRun() bool {
	return c.dryRunFlag != nil && *c.dryRunFlag
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// runnerConfig maps the loaded configuration onto the runner's immutable settings.
func runnerConfig(cfg *config.Config) ffmpeg.Config {
	return ffmpeg.Config{
		Binary:    cfg.Paths.FFmpeg,
		AudioArgs: cfg.AudioArgs(),
		Volume:    float64(cfg.FFmpeg.Volume),
		TempDir:   cfg.Paths.StagingDir,
	}
}

// newRunner builds a runner for cmd. ffmpeg's own output goes to the command's
// stderr so stdout carries only results; dry runs print commands to stdout.
func (c *commandContext) newRunner(cmd *cobra.Command) (*ffmpeg.Runner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	stderr := cmd.ErrOrStderr()
	opts := []ffmpeg.Option{
		ffmpeg.WithLogger(logger),
		ffmpeg.WithOutput(stderr, stderr),
	}
	if c.dryRun() {
		opts = append(opts, ffmpeg.WithCommandRunner(printingRunner(cmd.OutOrStdout())))
	}
	return ffmpeg.New(runnerConfig(cfg), opts...), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
