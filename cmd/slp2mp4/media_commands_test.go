package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"slp2mp4/internal/ffmpeg"
	"slp2mp4/internal/media/ffprobe"
)

func TestReencodePrintsOutputPath(t *testing.T) {
	env := setupCLITestEnv(t)
	audio := env.path("audio.wav")

	stdout, _, err := runCLI(t, []string{"reencode", audio}, env.configPath)
	if err != nil {
		t.Fatalf("reencode: %v", err)
	}
	want := filepath.Join(env.workDir, "fixed.out")
	if strings.TrimSpace(stdout) != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
	calls := env.stubCalls(t)
	requireContains(t, calls, "volume='0.8'")
	requireContains(t, calls, "-c:a\naac\n-f\nadts\n")
}

func TestMergeFailureSurfacesInvocationError(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("SLP2MP4_STUB_EXIT", "3")
	output := env.path("game.mp4")

	stdout, stderr, err := runCLI(t, []string{"merge", env.path("fixed.out"), env.path("render.avi"), output}, env.configPath)
	var invErr *ffmpeg.InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected *ffmpeg.InvocationError, got %v", err)
	}
	if invErr.Op != ffmpeg.OpMerge || invErr.ExitCode != 3 {
		t.Fatalf("unexpected error %+v", invErr)
	}
	requireContains(t, err.Error(), "stub: conversion failed")
	requireContains(t, stderr, "stub: conversion failed")
	if stdout != "" {
		t.Fatalf("expected no stdout on failure, got %q", stdout)
	}
	if _, statErr := os.Stat(output + ".lock"); !os.IsNotExist(statErr) {
		t.Fatal("output lock should be released after failure")
	}
}

func TestConcatRunsWithOrderedManifest(t *testing.T) {
	env := setupCLITestEnv(t)
	seg1, seg2 := env.path("seg1.mp4"), env.path("seg2.mp4")
	output := env.path("full.mp4")

	stdout, _, err := runCLI(t, []string{"concat", "-o", output, seg1, seg2}, env.configPath)
	if err != nil {
		t.Fatalf("concat: %v", err)
	}
	if strings.TrimSpace(stdout) != output {
		t.Fatalf("stdout = %q", stdout)
	}
	calls := env.stubCalls(t)
	requireContains(t, calls, "file '"+seg1+"'\nfile '"+seg2+"'")
	requireContains(t, calls, "-f\nconcat\n-safe\n0\n")
	requireEmptyDir(t, env.stagingDir)
	if _, err := os.Stat(output + ".lock"); !os.IsNotExist(err) {
		t.Fatal("output lock should be removed after success")
	}
}

func TestConcatFailureCleansStaging(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("SLP2MP4_STUB_EXIT", "1")

	_, _, err := runCLI(t, []string{"concat", "-o", env.path("full.mp4"), env.path("seg1.mp4")}, env.configPath)
	if !errors.Is(err, ffmpeg.ErrInvocation) {
		t.Fatalf("expected ErrInvocation, got %v", err)
	}
	requireEmptyDir(t, env.stagingDir)
}

func TestConcatRequiresOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"concat", env.path("seg1.mp4")}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "-o") {
		t.Fatalf("expected missing output error, got %v", err)
	}
}

func TestConcatRefusesLockedOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	output := env.path("full.mp4")
	held := flock.New(output + ".lock")
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("pre-lock: ok=%v err=%v", ok, err)
	}
	t.Cleanup(func() { _ = held.Unlock() })

	_, _, err = runCLI(t, []string{"concat", "-o", output, env.path("seg1.mp4")}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "another slp2mp4 process") {
		t.Fatalf("expected lock error, got %v", err)
	}
	if calls := env.stubCalls(t); calls != "" {
		t.Fatalf("ffmpeg must not run while output is locked, got %q", calls)
	}
}

func TestConcatCheck(t *testing.T) {
	env := setupCLITestEnv(t)
	output := env.path("full.mp4")

	_, stderr, err := runCLI(t, []string{"concat", "--check", "-o", output, env.path("seg1.mp4"), env.path("seg2.mp4")}, env.configPath)
	if err != nil {
		t.Fatalf("concat --check: %v", err)
	}
	requireContains(t, stderr, "1280x720")

	_, _, err = runCLI(t, []string{"concat", "--check", "-o", output, env.path("seg1.mp4"), env.path("wide.mp4")}, env.configPath)
	var mismatch *ffprobe.MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *ffprobe.MismatchError, got %v", err)
	}
	if mismatch.Index != 1 || mismatch.Property != "resolution" {
		t.Fatalf("unexpected mismatch %+v", mismatch)
	}
}

func TestDryRunPrintsCommandsWithoutRunning(t *testing.T) {
	env := setupCLITestEnv(t)
	seg1 := env.path("it's.mp4")
	output := env.path("full.mp4")

	stdout, _, err := runCLI(t, []string{"--dry-run", "concat", "-o", output, seg1}, env.configPath)
	if err != nil {
		t.Fatalf("dry-run concat: %v", err)
	}
	requireContains(t, stdout, "-f concat -safe 0 -i ")
	requireContains(t, stdout, "#   file '"+strings.ReplaceAll(seg1, "'", `'\''`)+"'")
	if calls := env.stubCalls(t); calls != "" {
		t.Fatalf("dry run must not execute ffmpeg, got %q", calls)
	}
	requireEmptyDir(t, env.stagingDir)

	stdout, _, err = runCLI(t, []string{"--dry-run", "reencode", env.path("audio.wav")}, env.configPath)
	if err != nil {
		t.Fatalf("dry-run reencode: %v", err)
	}
	requireContains(t, stdout, `-filter:a 'volume='\''0.8'\'''`)
}
