package process

// Notes:
// - KillProcessGroup: only an invalid PID is exercised. PID 0 or a real PID
//   would kill the test's own process group or an unrelated process.
// - ExecRunner tests need a POSIX shell; they skip on Windows and when sh or
//   sleep is missing from PATH.

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"
)

var _ Runner = (*ExecRunner)(nil)

type fakeRunner struct {
	stdout string
	stderr string
	err    error
	called []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	f.called = append([]string{name}, args...)
	return f.stdout, f.stderr, f.err
}

func requireTool(t *testing.T, name string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell tools required")
	}
	if _, ok := LookPath(name); !ok {
		t.Skipf("%s not found in PATH", name)
	}
}

// ---------------------------------------------------------------------------
// TestKillProcessGroup
// ---------------------------------------------------------------------------

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}

// ---------------------------------------------------------------------------
// TestExecRunner_Run
// ---------------------------------------------------------------------------

func TestExecRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("captures stdout and stderr", func(t *testing.T) {
		t.Parallel()
		requireTool(t, "sh")

		r := &ExecRunner{}
		stdout, stderr, err := r.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "out\n" {
			t.Errorf("stdout = %q, want %q", stdout, "out\n")
		}
		if stderr != "err\n" {
			t.Errorf("stderr = %q, want %q", stderr, "err\n")
		}
	})

	t.Run("non-zero exit returns error", func(t *testing.T) {
		t.Parallel()
		requireTool(t, "sh")

		r := &ExecRunner{}
		_, _, err := r.Run(context.Background(), "sh", "-c", "exit 3")
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("working directory honored", func(t *testing.T) {
		t.Parallel()
		requireTool(t, "sh")

		dir := t.TempDir()
		r := &ExecRunner{Dir: dir}
		stdout, _, err := r.Run(context.Background(), "sh", "-c", "pwd -P")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout == "" {
			t.Error("expected pwd output")
		}
	})

	t.Run("missing binary", func(t *testing.T) {
		t.Parallel()

		r := &ExecRunner{}
		_, _, err := r.Run(context.Background(), "office2adoc-no-such-tool")
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("context timeout kills command", func(t *testing.T) {
		t.Parallel()
		requireTool(t, "sleep")

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, _, err := (&ExecRunner{}).Run(ctx, "sleep", "10")
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("error = %v, want context.DeadlineExceeded", err)
		}
		if elapsed := time.Since(start); elapsed > 5*time.Second {
			t.Errorf("command not killed, took %v", elapsed)
		}
	})
}

// ---------------------------------------------------------------------------
// TestLookPath / TestFirstAvailable
// ---------------------------------------------------------------------------

func TestLookPath_Missing(t *testing.T) {
	t.Parallel()

	if path, ok := LookPath("office2adoc-no-such-tool"); ok || path != "" {
		t.Errorf("LookPath() = %q, %v; want \"\", false", path, ok)
	}
}

func TestFirstAvailable(t *testing.T) {
	t.Parallel()

	if got := FirstAvailable("office2adoc-missing-a", "office2adoc-missing-b"); got != "" {
		t.Errorf("FirstAvailable() = %q, want empty", got)
	}
	if got := FirstAvailable(); got != "" {
		t.Errorf("FirstAvailable() = %q, want empty", got)
	}

	requireTool(t, "sh")
	if got := FirstAvailable("office2adoc-missing-a", "sh"); got != "sh" {
		t.Errorf("FirstAvailable() = %q, want %q", got, "sh")
	}
}

// ---------------------------------------------------------------------------
// TestVersion
// ---------------------------------------------------------------------------

func TestVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		runner *fakeRunner
		want   string
	}{
		{
			name:   "first stdout line",
			runner: &fakeRunner{stdout: "pandoc 3.1.9\nFeatures: +server\n"},
			want:   "pandoc 3.1.9",
		},
		{
			name:   "falls back to stderr",
			runner: &fakeRunner{stderr: "Inkscape 1.2.2\n"},
			want:   "Inkscape 1.2.2",
		},
		{
			name:   "error yields empty",
			runner: &fakeRunner{stdout: "ignored", err: errors.New("exit status 1")},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Version(context.Background(), tt.runner, "tool", "--version")
			if got != tt.want {
				t.Errorf("Version() = %q, want %q", got, tt.want)
			}
			if len(tt.runner.called) != 2 || tt.runner.called[1] != "--version" {
				t.Errorf("called with %v", tt.runner.called)
			}
		})
	}
}
