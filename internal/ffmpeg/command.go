package ffmpeg

import (
	"context"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"
)

// CommandRunner starts name with args, waits for it, and returns nil only when
// the process exited with status zero. Errors that implement ExitCode() int
// and Stderr() []byte enrich the resulting InvocationError.
type CommandRunner func(ctx context.Context, name string, args ...string) error

const (
	stderrTailBytes = 8 << 10
	// ffmpeg finalizes the output on SIGINT; give it this long before the kill.
	cancelGracePeriod = 10 * time.Second
)

func execCommandRunner(stdout, stderr io.Writer) CommandRunner {
	return func(ctx context.Context, name string, args ...string) error {
		cmd := exec.CommandContext(ctx, name, args...)
		tail := &tailBuffer{limit: stderrTailBytes}
		cmd.Stdout = stdout
		if stderr != nil {
			cmd.Stderr = io.MultiWriter(stderr, tail)
		} else {
			cmd.Stderr = tail
		}
		cmd.WaitDelay = cancelGracePeriod
		if runtime.GOOS != "windows" {
			cmd.Cancel = func() error {
				return cmd.Process.Signal(os.Interrupt)
			}
		}
		if err := cmd.Run(); err != nil {
			return &commandError{err: err, stderr: tail.Bytes()}
		}
		return nil
	}
}

type commandError struct {
	err    error
	stderr []byte
}

func (e *commandError) Error() string { return e.err.Error() }

func (e *commandError) Unwrap() error { return e.err }

func (e *commandError) Stderr() []byte { return e.stderr }

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) Bytes() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]byte(nil), t.buf...)
}
