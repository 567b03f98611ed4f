package ffmpeg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildManifestPreservesOrderWithAbsolutePaths(t *testing.T) {
	dir := t.TempDir()
	names := []string{"c.mp4", "a.mp4", "b.mp4"}
	var paths []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write segment: %v", err)
		}
		paths = append(paths, path)
	}

	content, err := BuildManifest(paths)
	if err != nil {
		t.Fatalf("BuildManifest: %v", err)
	}

	lines := strings.Split(content, "\n")
	if len(lines) != len(paths) {
		t.Fatalf("expected %d lines, got %d: %q", len(paths), len(lines), content)
	}
	for i, path := range paths {
		want := "file '" + mustResolve(t, path) + "'"
		if lines[i] != want {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want)
		}
	}
	if strings.HasSuffix(content, "\n") {
		t.Fatal("manifest must not end with a newline")
	}
}

func TestBuildManifestResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	content, err := BuildManifest([]string{"seg1.mp4", filepath.Join("sub", "seg2.mp4")})
	if err != nil {
		t.Fatalf("BuildManifest: %v", err)
	}
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		path := strings.TrimSuffix(strings.TrimPrefix(line, "file '"), "'")
		if !filepath.IsAbs(path) {
			t.Fatalf("expected absolute path in %q", line)
		}
	}
	if !strings.HasSuffix(lines[0], "seg1.mp4'") || !strings.HasSuffix(lines[1], filepath.Join("sub", "seg2.mp4")+"'") {
		t.Fatalf("unexpected manifest %q", content)
	}
}

func TestBuildManifestFollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.mp4")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}
	link := filepath.Join(dir, "link.mp4")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	content, err := BuildManifest([]string{link})
	if err != nil {
		t.Fatalf("BuildManifest: %v", err)
	}
	if content != "file '"+mustResolve(t, target)+"'" {
		t.Fatalf("expected symlink to resolve to target, got %q", content)
	}
}

func TestQuoteManifestPathEscapesQuotes(t *testing.T) {
	got := quoteManifestPath("/videos/it's here.mp4")
	want := `'/videos/it'\''s here.mp4'`
	if got != want {
		t.Fatalf("quoteManifestPath = %q, want %q", got, want)
	}
	if got := quoteManifestPath("/videos/plain.mp4"); got != "'/videos/plain.mp4'" {
		t.Fatalf("unexpected quoting for plain path: %q", got)
	}
}

func mustResolve(t *testing.T, path string) string {
	t.Helper()
	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("abs %s: %v", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		t.Fatalf("eval symlinks %s: %v", abs, err)
	}
	return resolved
}
