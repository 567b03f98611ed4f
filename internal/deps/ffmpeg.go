package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolveFFmpeg returns the executable ffmpeg path for a configured value.
//
// An absolute path to an existing executable is used as-is. Anything else is
// treated as a command name and resolved through PATH.
func ResolveFFmpeg(configured string) (string, error) {
	command := strings.TrimSpace(configured)
	if command == "" {
		command = "ffmpeg"
	}
	if filepath.IsAbs(command) {
		info, err := os.Stat(command)
		if err == nil && isExecutable(info) {
			return command, nil
		}
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		return "", fmt.Errorf("binary %q not found", command)
	}
	if abs, absErr := filepath.Abs(resolved); absErr == nil {
		resolved = abs
	}
	return resolved, nil
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
