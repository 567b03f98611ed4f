package preflight

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"slp2mp4/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryAccess_ReadOnly(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission bits")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	result := CheckDirectoryAccess("test", dir)
	if result.Passed {
		t.Fatal("expected failure for read-only dir")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StagingDir = t.TempDir()

	results := RunAll(&cfg)
	if len(results) != 1 {
		t.Fatalf("expected only the staging check, got %d", len(results))
	}
	if !results[0].Passed {
		t.Fatalf("staging check failed: %s", results[0].Detail)
	}
}

func TestRunAll_IncludesLogDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StagingDir = t.TempDir()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "missing")

	results := RunAll(&cfg)
	if len(results) != 2 {
		t.Fatalf("expected staging + log checks, got %d", len(results))
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Log directory" {
		t.Fatalf("expected only the log directory to fail, got %+v", failed)
	}
}

func TestCheckSystemDeps(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub executables require a POSIX shell")
	}
	dir := t.TempDir()
	ffmpegPath := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(ffmpegPath, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", t.TempDir())

	cfg := config.Default()
	cfg.Paths.FFmpeg = ffmpegPath
	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available || statuses[0].Command != ffmpegPath {
		t.Fatalf("expected ffmpeg available, got %+v", statuses[0])
	}
	if statuses[1].Available || !statuses[1].Optional {
		t.Fatalf("expected optional, missing ffprobe, got %+v", statuses[1])
	}
}

func TestProbeFFmpegVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub executables require a POSIX shell")
	}
	stub := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\necho 'ffmpeg version 7.1.1 Copyright (c) 2000-2025 the FFmpeg developers'\necho 'built with gcc'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	probe := ProbeFFmpegVersion(context.Background(), stub)
	if !probe.Available || probe.Version != "7.1.1" {
		t.Fatalf("unexpected probe %+v", probe)
	}
	if probe.Detail() != "ffmpeg 7.1.1" {
		t.Fatalf("unexpected detail %q", probe.Detail())
	}

	missing := ProbeFFmpegVersion(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if missing.Available || missing.Detail() != "not runnable" {
		t.Fatalf("expected unavailable probe, got %+v", missing)
	}
}

func TestParseVersionLine(t *testing.T) {
	tests := map[string]string{
		"ffmpeg version n7.0-12-gabc Copyright": "n7.0-12-gabc",
		"something else entirely":               "unknown",
		"":                                      "unknown",
	}
	for input, want := range tests {
		if got := parseVersionLine([]byte(input)); got != want {
			t.Errorf("parseVersionLine(%q) = %q, want %q", input, got, want)
		}
	}
}
