package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"slp2mp4/internal/ffmpeg"
)

// printingRunner stands in for process execution during --dry-run. Concat
// manifests only exist while the command runs, so their content is printed
// alongside the command.
func printingRunner(out io.Writer) ffmpeg.CommandRunner {
	return func(ctx context.Context, name string, args ...string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		parts := make([]string, 0, len(args)+1)
		parts = append(parts, shellQuote(name))
		for _, arg := range args {
			parts = append(parts, shellQuote(arg))
		}
		fmt.Fprintln(out, strings.Join(parts, " "))

		for i, arg := range args {
			if arg != "-i" || i+1 >= len(args) || filepath.Base(args[i+1]) != ffmpeg.ManifestName {
				continue
			}
			data, err := os.ReadFile(args[i+1])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "# %s\n", ffmpeg.ManifestName)
			for _, line := range strings.Split(string(data), "\n") {
				fmt.Fprintf(out, "#   %s\n", line)
			}
		}
		return nil
	}
}

func shellQuote(arg string) string {
	if arg == "" {
		return "''"
	}
	if strings.ContainsAny(arg, " \t\n'\"$`\\*?()[]{}<>|&;") {
		return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
	}
	return arg
}

