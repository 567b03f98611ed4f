package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"slp2mp4/internal/config"
	"slp2mp4/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, dependency and staging readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			lines := renderSectionHeader("Configuration", colorize)
			lines = append(lines,
				renderStatusLine("Config file", statusInfo, ctx.configPath, colorize),
				renderStatusLine("Audio args", statusInfo, strings.Join(cfg.AudioArgs(), " "), colorize),
				renderStatusLine("Volume", statusInfo, strconv.Itoa(cfg.FFmpeg.Volume)+"%", colorize),
				renderStatusLine("Parallel probes", statusInfo, strconv.Itoa(cfg.Runtime.Parallel), colorize),
				"",
			)

			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			for _, status := range preflight.CheckSystemDeps(cfg) {
				kind, detail := statusOK, status.Command
				if !status.Available {
					kind, detail = statusError, status.Detail
					if status.Optional {
						kind = statusWarn
					}
				}
				lines = append(lines, renderStatusLine(status.Name, kind, detail, colorize))
			}
			version := preflight.ProbeFFmpegVersion(cmd.Context(), cfg.Paths.FFmpeg)
			versionKind := statusInfo
			if !version.Available {
				versionKind = statusError
			}
			lines = append(lines, renderStatusLine("FFmpeg version", versionKind, version.Detail(), colorize), "")

			lines = append(lines, renderSectionHeader("Directories", colorize)...)
			for _, result := range preflight.RunAll(cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			fmt.Fprintln(out)
			fmt.Fprint(out, renderTable(
				[]string{"Setting", "Value"},
				settingsRows(cfg),
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func settingsRows(cfg *config.Config) [][]string {
	logDir := cfg.Paths.LogDir
	if logDir == "" {
		logDir = "(stderr only)"
	}
	return [][]string{
		{"paths.ffmpeg", cfg.Paths.FFmpeg},
		{"paths.staging_dir", cfg.StagingRoot()},
		{"paths.log_dir", logDir},
		{"ffmpeg.audio_args", cfg.FFmpeg.AudioArgs},
		{"ffmpeg.volume", strconv.Itoa(cfg.FFmpeg.Volume)},
		{"runtime.parallel", strconv.Itoa(cfg.Runtime.Parallel)},
		{"logging.format", cfg.Logging.Format},
		{"logging.level", cfg.Logging.Level},
		{"ffprobe", cfg.FFprobeBinary()},
		{"custom staging dir", yesNo(cfg.Paths.StagingDir != "")},
	}
}
