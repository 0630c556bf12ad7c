package main

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	office2adoc "github.com/alnah/go-office2adoc"
	"github.com/alnah/go-office2adoc/internal/config"
)

func TestRunMain(t *testing.T) {
	t.Parallel()

	t.Run("no arguments", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv(nil)
		if code := runMain(context.Background(), []string{"office2adoc"}, env); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), "Usage:") {
			t.Errorf("stderr = %q, want usage", stderr.String())
		}
	})

	t.Run("version", func(t *testing.T) {
		t.Parallel()

		for _, arg := range []string{"version", "--version"} {
			env, stdout, _ := testEnv(nil)
			if code := runMain(context.Background(), []string{"office2adoc", arg}, env); code != ExitSuccess {
				t.Errorf("%s: exit code = %d", arg, code)
			}
			if !strings.HasPrefix(stdout.String(), "office2adoc "+Version) {
				t.Errorf("%s: stdout = %q", arg, stdout.String())
			}
		}
	})

	t.Run("help", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv(nil)
		if code := runMain(context.Background(), []string{"office2adoc", "help", "doctor"}, env); code != ExitSuccess {
			t.Errorf("exit code = %d", code)
		}
		if !strings.Contains(stdout.String(), "Usage: office2adoc doctor") {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("input without command converts", func(t *testing.T) {
		t.Parallel()

		in := setupTestDir(t, map[string]string{"memo.docx": "PK"})
		out := t.TempDir()
		env, _, stderr := testEnv(&fakePandoc{root: out, content: "== Memo\n"})

		args := []string{"office2adoc", filepath.Join(in, "memo.docx"), "-d", out, "--no-images"}
		if code := runMain(context.Background(), args, env); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr = %q", code, stderr.String())
		}
		if got := readOutput(t, filepath.Join(out, "memo", "memo.adoc")); !strings.Contains(got, "== Memo") {
			t.Errorf("output = %q", got)
		}
	})

	t.Run("pandoc failure exits external", func(t *testing.T) {
		t.Parallel()

		in := setupTestDir(t, map[string]string{"memo.docx": "PK"})
		out := t.TempDir()
		env, _, stderr := testEnv(&fakePandoc{root: out, err: errors.New("exit status 64")})

		args := []string{"office2adoc", "convert", filepath.Join(in, "memo.docx"), "-d", out, "--no-images"}
		if code := runMain(context.Background(), args, env); code != ExitExternal {
			t.Errorf("exit code = %d, want %d", code, ExitExternal)
		}
		if !strings.Contains(stderr.String(), "pandoc: boom") {
			t.Errorf("stderr = %q, want pandoc stderr", stderr.String())
		}
	})

	t.Run("missing input exits io", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv(nil)
		args := []string{"office2adoc", filepath.Join(t.TempDir(), "none.docx")}
		if code := runMain(context.Background(), args, env); code != ExitIO {
			t.Errorf("exit code = %d, want %d", code, ExitIO)
		}
		if !strings.HasPrefix(stderr.String(), "error: ") {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("config prints yaml", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv(nil)
		if code := runMain(context.Background(), []string{"office2adoc", "config"}, env); code != ExitSuccess {
			t.Errorf("exit code = %d", code)
		}
		for _, want := range []string{"binary: pandoc", "mediaDir: extracted_media", "imagesDir: extracted_images"} {
			if !strings.Contains(stdout.String(), want) {
				t.Errorf("stdout missing %q\n%s", want, stdout.String())
			}
		}
	})

	t.Run("completion writes script", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv(nil)
		if code := runMain(context.Background(), []string{"office2adoc", "completion", "bash"}, env); code != ExitSuccess {
			t.Errorf("exit code = %d", code)
		}
		if !strings.Contains(stdout.String(), "complete -o filenames -F _office2adoc_completions office2adoc") {
			t.Errorf("stdout missing complete registration\n%s", stdout.String())
		}
	})

	t.Run("completion for unknown shell", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv(nil)
		if code := runMain(context.Background(), []string{"office2adoc", "completion", "tcsh"}, env); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), "unsupported shell") {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		in := setupTestDir(t, map[string]string{"memo.docx": "PK"})
		env, _, stderr := testEnv(&fakePandoc{root: t.TempDir()})

		if code := runMain(ctx, []string{"office2adoc", filepath.Join(in, "memo.docx"), "--no-images"}, env); code != ExitGeneral {
			t.Errorf("exit code = %d, want %d", code, ExitGeneral)
		}
		if strings.TrimSpace(stderr.String()) != "interrupted" {
			t.Errorf("stderr = %q, want interrupted", stderr.String())
		}
	})
}

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"pandoc missing", fmt.Errorf("%w: %w", office2adoc.ErrPandoc, exec.ErrNotFound), "pandoc.binary"},
		{"timeout", fmt.Errorf("%w: %w", office2adoc.ErrPandoc, context.DeadlineExceeded), "timeout"},
		{"config not found", &config.NotFoundError{Name: "team", Tried: []string{"team.yaml", "/home/u/.config/office2adoc/team.yaml"}}, "/home/u/.config/office2adoc/team.yaml"},
		{"layout", fmt.Errorf("%w: denied", office2adoc.ErrCreateLayout), "writable"},
		{"unsupported", fmt.Errorf("%w: a.pdf", office2adoc.ErrUnsupportedInput), ".docx"},
		{"no files", ErrNoSupportedFiles, ".docx"},
		{"other", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := hintFor(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want none", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
