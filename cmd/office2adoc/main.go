package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"go.uber.org/automaxprocs/maxprocs"

	office2adoc "github.com/alnah/go-office2adoc"
	"github.com/alnah/go-office2adoc/internal/config"
	"github.com/alnah/go-office2adoc/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches to a command and returns the process exit code.
// A first argument that is not a command is the input of an implicit convert.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case "convert":
		err = runConvert(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "config":
		err = runConfigCmd(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "office2adoc %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		err = runConvert(ctx, args[1:], env)
	}

	if err != nil {
		printError(env, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// printError writes err and any matching hint to stderr.
func printError(env *Environment, err error) {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(env.Stderr, "interrupted")
		return
	}
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return hints.ForPandocNotFound()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		var nf *config.NotFoundError
		if errors.As(err, &nf) {
			return hints.ForConfigNotFound(nf.Tried)
		}
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, office2adoc.ErrCreateLayout):
		return hints.ForOutputDirectory()
	case errors.Is(err, office2adoc.ErrUnsupportedInput), errors.Is(err, ErrNoSupportedFiles):
		return hints.ForUnsupportedInput()
	}
	return ""
}
