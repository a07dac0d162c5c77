// Package runner starts child processes in one of three shapes: capture
// (buffer both output streams), discard (wait for exit only) and stream
// (deliver output line by line while the process runs).
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner executes commands. The zero value is usable: no working directory
// override, no output cap and no logging.
type Runner struct {
	Dir       string      // working directory for children; empty means the caller's
	MaxOutput int         // per-stream capture cap in bytes; <= 0 means unlimited
	Log       *zap.Logger // nil means no logging
}

// Capture runs argv to completion and returns both output streams.
// argv[0] is the binary name, resolved via PATH.
// A non-zero exit status is reported in Result.ExitCode, not as an error.
func (r *Runner) Capture(ctx context.Context, argv []string) (*Result, error) {
	cmd, err := r.command(ctx, argv)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdout, limit: r.MaxOutput}
	cmd.Stderr = &limitWriter{buf: &stderr, limit: r.MaxOutput}

	r.logger().Debug("capture", zap.String("run_id", runID), zap.String("cmd", Quote(argv)))

	exitCode, err := exitStatus(cmd.Run())
	if err != nil {
		return nil, fmt.Errorf("executing %s: %w", argv[0], err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	truncated := r.MaxOutput > 0 && (stdout.Len() >= r.MaxOutput || stderr.Len() >= r.MaxOutput)

	return &Result{
		RunID:     runID,
		ExitCode:  exitCode,
		Output:    stdout.String(),
		Error:     stderr.String(),
		Truncated: truncated,
	}, nil
}

// Discard runs argv and waits for it to exit, throwing away its output.
// Output goes to the null device so a chatty child never blocks on a full
// pipe. The exit status is logged and otherwise ignored; only start failures
// and context cancellation are returned.
func (r *Runner) Discard(ctx context.Context, argv []string) error {
	cmd, err := r.command(ctx, argv)
	if err != nil {
		return err
	}

	r.logger().Debug("discard", zap.String("cmd", Quote(argv)))

	exitCode, err := exitStatus(cmd.Run())
	if err != nil {
		return fmt.Errorf("executing %s: %w", argv[0], err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if exitCode != 0 {
		r.logger().Debug("discarded non-zero exit", zap.String("cmd", argv[0]), zap.Int("exit_code", exitCode))
	}
	return nil
}

func (r *Runner) command(ctx context.Context, argv []string) (*exec.Cmd, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty argv")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	return cmd, nil
}

func (r *Runner) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// exitStatus splits the error from cmd.Run or cmd.Wait into an exit code
// and a genuine execution error (binary not found, I/O failure).
func exitStatus(runErr error) (int, error) {
	if runErr == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, runErr
}

// Quote renders argv as a single line for logs. Arguments are never passed
// through a shell; quoting only makes spaces visible.
func Quote(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			parts[i] = fmt.Sprintf("%q", a)
		} else {
			parts[i] = a
		}
	}
	return strings.Join(parts, " ")
}

// limitWriter writes up to limit bytes to buf, then silently discards the rest.
// A limit <= 0 disables the cap.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	if w.limit <= 0 {
		return w.buf.Write(p)
	}
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		// Write only what fits, but report all bytes as consumed
		// to avoid short write errors from io.Copy.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
