package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakePandoc writes content to the -o path, resolved against root, the way
// pandoc running in the output root would. Other commands print a version.
type fakePandoc struct {
	root    string
	content string
	err     error
}

func (f *fakePandoc) Run(_ context.Context, name string, args ...string) (string, string, error) {
	if len(args) == 1 && args[0] == "--version" {
		return filepath.Base(name) + " 9.9.9\nmore lines\n", "", nil
	}
	if f.err != nil {
		return "", "pandoc: boom", f.err
	}
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			return "", "", os.WriteFile(filepath.Join(f.root, args[i+1]), []byte(f.content), 0o644)
		}
	}
	return "", "", nil
}

// testEnv returns an environment writing to buffers, with no tools on PATH.
func testEnv(runner *fakePandoc) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Now:      time.Now,
		Stdout:   stdout,
		Stderr:   stderr,
		LookPath: func(string) (string, bool) { return "", false },
	}
	if runner != nil {
		env.Runner = runner
	}
	return env, stdout, stderr
}

// setupTestDir creates a temp directory with the given files.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for path, content := range files {
		full := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	return dir
}
