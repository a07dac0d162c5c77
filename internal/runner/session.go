package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stream labels which output stream a line came from.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	switch s {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	default:
		return "unknown"
	}
}

// Line is one line of child output, without its trailing newline.
type Line struct {
	Stream Stream
	Text   string
}

// Buffered lines per session before the readers block.
const lineBuffer = 64

// maxLineBytes bounds the size of one Line. Longer lines are delivered in
// consecutive pieces of at most this size.
const maxLineBytes = 1 << 20

// Session is a live child process started by Stream. The caller owns it:
// Lines must be drained until closed, then Wait must be called to reap
// the process.
type Session struct {
	ID string

	ctx    context.Context
	cancel context.CancelFunc
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	lines  chan Line
	log    *zap.Logger

	readers  sync.WaitGroup
	waitOnce sync.Once
	exitCode int
	waitErr  error
}

// Stream starts argv with stdin, stdout and stderr piped and returns
// immediately. Output is delivered line by line on Session.Lines.
func (r *Runner) Stream(ctx context.Context, argv []string) (*Session, error) {
	ctx, cancel := context.WithCancel(ctx)
	cmd, err := r.command(ctx, argv)
	if err != nil {
		cancel()
		return nil, err
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("executing %s: %w", argv[0], err)
	}

	s := &Session{
		ID:     uuid.New().String(),
		ctx:    ctx,
		cancel: cancel,
		cmd:    cmd,
		stdin:  stdin,
		lines:  make(chan Line, lineBuffer),
		log:    r.logger(),
	}
	s.log.Debug("stream", zap.String("session_id", s.ID), zap.String("cmd", Quote(argv)))

	s.readers.Add(2)
	go s.scan(stdout, Stdout)
	go s.scan(stderr, Stderr)
	go func() {
		s.readers.Wait()
		close(s.lines)
	}()

	return s, nil
}

// Lines returns the channel of output lines from both streams. It is closed
// once both streams reach EOF. Lines from the two streams are interleaved in
// arrival order; order within one stream is preserved.
func (s *Session) Lines() <-chan Line {
	return s.lines
}

// Stdin returns the child's standard input. Closing it signals EOF.
func (s *Session) Stdin() io.WriteCloser {
	return s.stdin
}

// Cancel kills the child process. It is safe to call more than once and
// after the process has exited.
func (s *Session) Cancel() {
	s.cancel()
}

// Wait blocks until both output streams are drained and the process exits,
// then returns its exit code. Lines must be consumed for Wait to return.
// A cancelled session reports the context error.
func (s *Session) Wait() (int, error) {
	s.waitOnce.Do(func() {
		s.readers.Wait()
		code, err := exitStatus(s.cmd.Wait())
		if err == nil {
			err = s.ctx.Err()
		}
		s.exitCode, s.waitErr = code, err
		s.cancel()
		s.log.Debug("stream exited", zap.String("session_id", s.ID), zap.Int("exit_code", code))
	})
	return s.exitCode, s.waitErr
}

func (s *Session) scan(r io.Reader, stream Stream) {
	defer s.readers.Done()
	br := bufio.NewReaderSize(r, maxLineBytes)
	continued := false
	for {
		line, isPrefix, err := br.ReadLine()
		if err != nil {
			if err != io.EOF {
				s.log.Debug("stream read", zap.String("session_id", s.ID), zap.Stringer("stream", stream), zap.Error(err))
				// Keep the pipe drained so the child can still exit.
				_, _ = io.Copy(io.Discard, r)
			}
			return
		}
		// A piece that filled the buffer exactly leaves an empty tail.
		if continued && !isPrefix && len(line) == 0 {
			continued = false
			continue
		}
		s.lines <- Line{Stream: stream, Text: string(line)}
		continued = isPrefix
	}
}
