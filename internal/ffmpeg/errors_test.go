package ffmpeg

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestInvocationErrorMessage(t *testing.T) {
	err := newInvocationError(OpMerge, "/usr/bin/ffmpeg", []string{"-i", "my replay.wav", "out.mp4"}, "cid",
		&commandError{err: exitStatus(1), stderr: []byte("frame=1\nout.mp4: Invalid argument\n")})

	want := `ffmpeg merge: exit status 1 (/usr/bin/ffmpeg -i "my replay.wav" out.mp4): out.mp4: Invalid argument`
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q\nwant      %q", got, want)
	}
	if err.ExitCode != 1 {
		t.Fatalf("exit code = %d", err.ExitCode)
	}
	if !strings.HasPrefix(err.Stderr, "frame=1") {
		t.Fatalf("stderr = %q", err.Stderr)
	}
}

func TestInvocationErrorWithoutExitCode(t *testing.T) {
	cause := errors.New("exec: \"ffmpeg\": executable file not found in $PATH")
	err := newInvocationError(OpConcat, "ffmpeg", []string{"-y"}, "", cause)
	if err.ExitCode != -1 {
		t.Fatalf("expected -1 exit code, got %d", err.ExitCode)
	}
	if !strings.Contains(err.Error(), "executable file not found") {
		t.Fatalf("expected cause in message, got %q", err.Error())
	}
	if !errors.Is(err, ErrInvocation) || !errors.Is(err, cause) {
		t.Fatal("expected sentinel and cause in chain")
	}
}

func TestStagingErrorChain(t *testing.T) {
	err := &StagingError{Op: OpConcat, Path: "/staging", Err: fs.ErrPermission}
	if !errors.Is(err, ErrStaging) || !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("unexpected chain for %v", err)
	}
	if errors.Is(err, ErrInvocation) {
		t.Fatal("staging error must not match ErrInvocation")
	}
	if got := err.Error(); got != "ffmpeg concat: stage /staging: permission denied" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestJoinedCleanupKeepsPrimaryFirst(t *testing.T) {
	primary := &InvocationError{Op: OpConcat, ExitCode: 2}
	err := errors.Join(primary, &CleanupError{Path: "/tmp/x", Err: fs.ErrPermission})

	var invErr *InvocationError
	if !errors.As(err, &invErr) || invErr != primary {
		t.Fatal("expected primary error via errors.As")
	}
	var cleanupErr *CleanupError
	if !errors.As(err, &cleanupErr) {
		t.Fatal("expected cleanup error via errors.As")
	}
	lines := strings.Split(err.Error(), "\n")
	if lines[0] != primary.Error() {
		t.Fatalf("first line = %q", lines[0])
	}
}

func TestRenderCommandQuoting(t *testing.T) {
	got := renderCommand("ffmpeg", []string{"-filter:a", "volume='0.8'", "", "a b"})
	want := `ffmpeg -filter:a volume='0.8' "" "a b"`
	if got != want {
		t.Fatalf("renderCommand = %q, want %q", got, want)
	}
}
