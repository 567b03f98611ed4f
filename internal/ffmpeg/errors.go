package ffmpeg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvocation marks every failed ffmpeg run, whatever the cause.
	ErrInvocation = errors.New("ffmpeg invocation failed")
	// ErrStaging marks failures to prepare temporary artifacts before ffmpeg starts.
	ErrStaging = errors.New("ffmpeg staging failed")
	// ErrNoSegments is returned by ConcatVideos when no inputs were given.
	ErrNoSegments = errors.New("no videos to concatenate")
)

// InvocationError describes a failed ffmpeg run.
type InvocationError struct {
	Op            string
	Binary        string
	Args          []string
	ExitCode      int // -1 when the process did not exit normally
	Stderr        string
	CorrelationID string
	Err           error
}

func newInvocationError(op, binary string, args []string, correlationID string, err error) *InvocationError {
	invErr := &InvocationError{
		Op:            op,
		Binary:        binary,
		Args:          append([]string(nil), args...),
		ExitCode:      -1,
		CorrelationID: correlationID,
		Err:           err,
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		invErr.ExitCode = coder.ExitCode()
	}
	var provider interface{ Stderr() []byte }
	if errors.As(err, &provider) {
		invErr.Stderr = strings.TrimSpace(string(provider.Stderr()))
	}
	return invErr
}

func (e *InvocationError) Error() string {
	var b strings.Builder
	b.WriteString("ffmpeg ")
	b.WriteString(e.Op)
	b.WriteString(": ")
	switch {
	case e.ExitCode >= 0:
		fmt.Fprintf(&b, "exit status %d", e.ExitCode)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString("did not complete")
	}
	b.WriteString(" (")
	b.WriteString(e.Command())
	b.WriteByte(')')
	if line := lastLine(e.Stderr); line != "" {
		b.WriteString(": ")
		b.WriteString(line)
	}
	return b.String()
}

func (e *InvocationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvocation}
	}
	return []error{ErrInvocation, e.Err}
}

// Command renders the attempted command line, quoting arguments that contain
// whitespace or quotes.
func (e *InvocationError) Command() string {
	return renderCommand(e.Binary, e.Args)
}

// StagingError reports a temporary directory or manifest that could not be created.
type StagingError struct {
	Op   string
	Path string
	Err  error
}

func (e *StagingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("ffmpeg %s: stage: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("ffmpeg %s: stage %s: %v", e.Op, e.Path, e.Err)
}

func (e *StagingError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStaging}
	}
	return []error{ErrStaging, e.Err}
}

// CleanupError reports a staging directory that could not be removed. It is
// joined after the primary error and never replaces it.
type CleanupError struct {
	Path string
	Err  error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("remove staging directory %s: %v", e.Path, e.Err)
}

func (e *CleanupError) Unwrap() error {
	return e.Err
}

func renderCommand(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(binary))
	for _, arg := range args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

func quoteArg(arg string) string {
	if arg == "" || strings.ContainsAny(arg, " \t\n\"") {
		return strconv.Quote(arg)
	}
	return arg
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[idx+1:])
	}
	return s
}
