package webform

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner runs the sonify command line with args.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, args []string) error

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, args []string) error {
	return f(ctx, args)
}

// ExecRunner runs a program as a subprocess.
type ExecRunner struct {
	// Path is the program to run. Empty means the running executable.
	Path string

	// Stdout receives the subprocess output. Nil discards it.
	Stdout io.Writer

	// Env is appended to the current environment.
	Env []string
}

// Run implements Runner. A failing command's stderr is included in the
// returned error.
func (r ExecRunner) Run(ctx context.Context, args []string) error {
	path := r.Path
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("webform: locate executable: %w", err)
		}
		path = exe
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = r.Stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	if err := cmd.Run(); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
