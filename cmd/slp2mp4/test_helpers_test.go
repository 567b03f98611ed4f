package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const stubFFmpegScript = `#!/bin/sh
printf '%s\n' "$@" >> "$SLP2MP4_STUB_LOG"
for arg in "$@"; do
  case "$arg" in
    */concat.txt) cat "$arg" >> "$SLP2MP4_STUB_LOG"; echo >> "$SLP2MP4_STUB_LOG" ;;
  esac
done
if [ "${SLP2MP4_STUB_EXIT:-0}" != 0 ]; then
  echo "stub: conversion failed" >&2
  exit "$SLP2MP4_STUB_EXIT"
fi
exit 0
`

const stubFFprobeScript = `#!/bin/sh
for last in "$@"; do :; done
case "$last" in
  *wide*) width=1920 ;;
  *) width=1280 ;;
esac
cat <<JSON
{"streams":[{"index":0,"codec_name":"h264","codec_type":"video","width":$width,"height":720,"pix_fmt":"yuv420p","time_base":"1/15360"}],"format":{"duration":"10.0"}}
JSON
`

type cliTestEnv struct {
	ffmpegPath string
	configPath string
	stagingDir string
	workDir    string
	stubLog    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub executables require a POSIX shell")
	}

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	binDir := filepath.Join(base, "bin")
	stagingDir := filepath.Join(base, "staging")
	workDir := filepath.Join(base, "work")
	for _, dir := range []string{homeDir, binDir, workDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("SLP2MP4_FFMPEG", "")
	t.Setenv("SLP2MP4_STUB_EXIT", "0")

	ffmpegPath := filepath.Join(binDir, "ffmpeg")
	writeScript(t, ffmpegPath, stubFFmpegScript)
	writeScript(t, filepath.Join(binDir, "ffprobe"), stubFFprobeScript)

	stubLog := filepath.Join(base, "ffmpeg-calls.log")
	t.Setenv("SLP2MP4_STUB_LOG", stubLog)

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
ffmpeg = %q
staging_dir = %q

[ffmpeg]
audio_args = "-c:a aac -f adts"
volume = 80

[runtime]
parallel = 2

[logging]
level = "error"
`, ffmpegPath, stagingDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		ffmpegPath: ffmpegPath,
		configPath: configPath,
		stagingDir: stagingDir,
		workDir:    workDir,
		stubLog:    stubLog,
	}
}

func writeScript(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *cliTestEnv) stubCalls(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.stubLog)
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		t.Fatalf("read stub log: %v", err)
	}
	return string(data)
}

func (e *cliTestEnv) path(name string) string {
	return filepath.Join(e.workDir, name)
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected %s to be empty, found %d entries", dir, len(entries))
	}
}
