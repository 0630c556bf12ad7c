package process

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Runner abstracts command execution to enable testing without real subprocesses.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct {
	// Dir is the working directory. Empty means the caller's.
	Dir    string
	Logger *zap.Logger
}

// Run starts name in a new process group and waits for it. When ctx is done
// the whole group is killed and ctx's error is reported.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	if r.Logger != nil {
		r.Logger.Debug("executing command",
			zap.String("command", name),
			zap.Strings("args", args))
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	stderrContent, err := io.ReadAll(stderrPipe)
	if err != nil {
		_ = cmd.Wait()
		return "", "", fmt.Errorf("reading stderr: %w", err)
	}

	err = cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
		err = fmt.Errorf("%s: %w", name, ctxErr)
	}
	return stdout.String(), string(stderrContent), err
}

// LookPath reports the resolved path of name and whether it was found.
func LookPath(name string) (string, bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return path, true
}

// FirstAvailable returns the first of names found on PATH, or "" if none is.
func FirstAvailable(names ...string) string {
	for _, name := range names {
		if _, ok := LookPath(name); ok {
			return name
		}
	}
	return ""
}

// Version runs "name flag" and returns the first line of its output.
// Returns "" if the command fails.
func Version(ctx context.Context, r Runner, name, flag string) string {
	stdout, stderr, err := r.Run(ctx, name, flag)
	if err != nil {
		return ""
	}
	out := stdout
	if strings.TrimSpace(out) == "" {
		out = stderr
	}
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	return strings.TrimSpace(line)
}
