// Package board drives the ampy command-line tool against a board attached
// to a serial port. Every method launches exactly one ampy process.
//
// Methods come in three shapes, matching how the output is consumed:
//
//   - capture: GetFileContent, ListDir and Run return a *runner.Result with
//     both output streams fully buffered.
//   - discard: the remaining file operations, Reset and RunNoWait wait for
//     the process to exit and drop its output.
//   - stream: RunStreaming returns a live *runner.Session the caller owns.
//
// Neither exit status nor stderr is interpreted here; capture callers get
// them verbatim.
package board

import (
	"context"
	"strconv"

	"github.com/deixis/ampyctl/internal/runner"
	"go.uber.org/zap"
)

// DefaultExecutable is the tool invoked when no executable is configured.
const DefaultExecutable = "ampy"

// CommandRunner executes commands in the three supported shapes.
// Implemented by runner.Runner.
type CommandRunner interface {
	Capture(ctx context.Context, argv []string) (*runner.Result, error)
	Discard(ctx context.Context, argv []string) error
	Stream(ctx context.Context, argv []string) (*runner.Session, error)
}

// Board addresses one serial port. It holds no mutable state and is safe
// for concurrent use, although the device itself only tolerates one session
// at a time.
type Board struct {
	port   int
	exe    string
	runner CommandRunner
	log    *zap.Logger
}

// Option configures a Board.
type Option func(*Board)

// WithExecutable overrides the ampy binary name or path.
func WithExecutable(exe string) Option {
	return func(b *Board) {
		if exe != "" {
			b.exe = exe
		}
	}
}

// WithRunner replaces the process runner.
func WithRunner(r CommandRunner) Option {
	return func(b *Board) {
		b.runner = r
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.log = l
		}
	}
}

// New returns a Board for the given port number. Any port is accepted.
func New(port int, opts ...Option) *Board {
	b := &Board{
		port: port,
		exe:  DefaultExecutable,
		log:  zap.NewNop(),
	}
	for _, o := range opts {
		o(b)
	}
	if b.runner == nil {
		b.runner = &runner.Runner{Log: b.log}
	}
	return b
}

// Port returns the port number the board was created with.
func (b *Board) Port() int {
	return b.port
}

// Executable returns the ampy binary the board invokes.
func (b *Board) Executable() string {
	return b.exe
}

// Device returns the device address passed to ampy, e.g. "COM3".
func (b *Board) Device() string {
	return "COM" + strconv.Itoa(b.port)
}

// command prefixes args with the executable and the port selector.
func (b *Board) command(args ...string) []string {
	argv := make([]string, 0, len(args)+3)
	argv = append(argv, b.exe, "-p", b.Device())
	return append(argv, args...)
}

func (b *Board) capture(ctx context.Context, args ...string) (*runner.Result, error) {
	return b.runner.Capture(ctx, b.command(args...))
}

func (b *Board) discard(ctx context.Context, args ...string) error {
	return b.runner.Discard(ctx, b.command(args...))
}

func (b *Board) stream(ctx context.Context, args ...string) (*runner.Session, error) {
	return b.runner.Stream(ctx, b.command(args...))
}
