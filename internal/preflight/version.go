package preflight

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

// VersionProbe reports the first line of `ffmpeg -version`.
type VersionProbe struct {
	Binary    string
	Available bool
	Version   string
}

// ProbeFFmpegVersion runs `<binary> -version` with a short timeout.
func ProbeFFmpegVersion(ctx context.Context, binary string) VersionProbe {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	probe := VersionProbe{Binary: binary}
	if _, err := exec.LookPath(binary); err != nil {
		return probe
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, binary, "-version").Output()
	if err != nil {
		return probe
	}
	probe.Available = true
	probe.Version = parseVersionLine(output)
	return probe
}

// parseVersionLine extracts "7.1.1" from "ffmpeg version 7.1.1 Copyright ...".
func parseVersionLine(output []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	if !scanner.Scan() {
		return "unknown"
	}
	fields := strings.Fields(scanner.Text())
	for i, field := range fields {
		if field == "version" && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return "unknown"
}

// Detail renders a display-friendly summary for status output.
func (p VersionProbe) Detail() string {
	if !p.Available {
		return "not runnable"
	}
	return "ffmpeg " + p.Version
}
