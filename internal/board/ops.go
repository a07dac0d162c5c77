package board

import (
	"context"

	"github.com/deixis/ampyctl/internal/runner"
	"go.uber.org/zap"
)

// MkdirOptions are the optional flags of MakeDir.
type MkdirOptions struct {
	ExistsOkay  bool // --exists-okay
	MakeParents bool // --make-parents
}

// ListOptions are the optional flags of ListDir.
type ListOptions struct {
	LongFormat bool // -l
	Recursive  bool // -r
}

// RmdirOptions are the optional flags of RemoveDir.
type RmdirOptions struct {
	MissingOkay bool // --missing-okay
}

// flag is an optional argument emitted only when on is true.
type flag struct {
	token string
	on    bool
}

// withFlags appends the enabled flags to args in declaration order.
func withFlags(args []string, flags ...flag) []string {
	for _, f := range flags {
		if f.on {
			args = append(args, f.token)
		}
	}
	return args
}

func getArgs(remote string) []string {
	return []string{"get", remote}
}

func downloadArgs(remote, local string) []string {
	return []string{"get", remote, local}
}

func mkdirArgs(path string, opts MkdirOptions) []string {
	return withFlags([]string{"mkdir", path},
		flag{"--exists-okay", opts.ExistsOkay},
		flag{"--make-parents", opts.MakeParents},
	)
}

func lsArgs(path string, opts ListOptions) []string {
	if path == "" {
		path = "/"
	}
	return withFlags([]string{"ls", path},
		flag{"-l", opts.LongFormat},
		flag{"-r", opts.Recursive},
	)
}

func putArgs(local, remote string) []string {
	args := []string{"put", local}
	if remote != "" {
		args = append(args, remote)
	}
	return args
}

func rmArgs(remote string) []string {
	return []string{"rm", remote}
}

func rmdirArgs(path string, opts RmdirOptions) []string {
	return withFlags([]string{"rmdir", path},
		flag{"--missing-okay", opts.MissingOkay},
	)
}

func runArgs(local string) []string {
	return []string{"run", local}
}

func runNoWaitArgs(local string) []string {
	return []string{"run", "-n", local}
}

func runStreamArgs(local string) []string {
	return []string{"run", "-s", local}
}

// GetFileContent prints a file from the board and returns it as Output.
func (b *Board) GetFileContent(ctx context.Context, remote string) (*runner.Result, error) {
	return b.capture(ctx, getArgs(remote)...)
}

// DownloadFile copies remote on the board to local on the host.
func (b *Board) DownloadFile(ctx context.Context, remote, local string) error {
	return b.discard(ctx, downloadArgs(remote, local)...)
}

// MakeDir creates a directory on the board.
func (b *Board) MakeDir(ctx context.Context, path string, opts MkdirOptions) error {
	return b.discard(ctx, mkdirArgs(path, opts)...)
}

// ListDir lists a directory on the board. An empty path lists "/".
func (b *Board) ListDir(ctx context.Context, path string, opts ListOptions) (*runner.Result, error) {
	return b.capture(ctx, lsArgs(path, opts)...)
}

// Upload copies a host file or directory to the board. If remote is empty
// ampy picks the destination name itself.
func (b *Board) Upload(ctx context.Context, local, remote string) error {
	return b.discard(ctx, putArgs(local, remote)...)
}

// RemoveFile deletes a file on the board.
func (b *Board) RemoveFile(ctx context.Context, remote string) error {
	return b.discard(ctx, rmArgs(remote)...)
}

// RemoveDir deletes a directory and its contents on the board.
func (b *Board) RemoveDir(ctx context.Context, path string, opts RmdirOptions) error {
	return b.discard(ctx, rmdirArgs(path, opts)...)
}

// Reset resets the board. An unknown mode fails before any process starts.
func (b *Board) Reset(ctx context.Context, mode ResetMode) error {
	args, err := resetArgs(mode)
	if err != nil {
		b.log.Debug("reset rejected", zap.Int("mode", int(mode)))
		return err
	}
	return b.discard(ctx, args...)
}

// Run executes a host script on the board and waits for it to finish.
func (b *Board) Run(ctx context.Context, local string) (*runner.Result, error) {
	return b.capture(ctx, runArgs(local)...)
}

// RunNoWait starts a host script on the board without waiting for its output.
func (b *Board) RunNoWait(ctx context.Context, local string) error {
	return b.discard(ctx, runNoWaitArgs(local)...)
}

// RunStreaming executes a host script on the board and returns the live
// session. The caller must drain Session.Lines and call Session.Wait.
func (b *Board) RunStreaming(ctx context.Context, local string) (*runner.Session, error) {
	return b.stream(ctx, runStreamArgs(local)...)
}
