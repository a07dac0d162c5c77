package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCapture_Success(t *testing.T) {
	r := &Runner{}
	res, err := r.Capture(context.Background(), []string{"echo", "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Output != "hello\n" {
		t.Errorf("Output = %q, want %q", res.Output, "hello\n")
	}
	if res.Error != "" {
		t.Errorf("Error = %q, want empty", res.Error)
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}
}

func TestCapture_BothStreams(t *testing.T) {
	r := &Runner{}
	res, err := r.Capture(context.Background(), []string{"sh", "-c", "echo out; echo err >&2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Output != "out\n" {
		t.Errorf("Output = %q, want %q", res.Output, "out\n")
	}
	if res.Error != "err\n" {
		t.Errorf("Error = %q, want %q", res.Error, "err\n")
	}
}

func TestCapture_NonZeroExit(t *testing.T) {
	r := &Runner{}
	res, err := r.Capture(context.Background(), []string{"sh", "-c", "echo boom >&2; exit 3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if res.Error != "boom\n" {
		t.Errorf("Error = %q, want %q", res.Error, "boom\n")
	}
}

func TestCapture_BinaryNotFound(t *testing.T) {
	r := &Runner{}
	_, err := r.Capture(context.Background(), []string{"nonexistent-binary-xyz-123"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !strings.Contains(err.Error(), "nonexistent-binary-xyz-123") {
		t.Errorf("error = %q, want to mention the binary name", err)
	}
}

func TestCapture_EmptyArgv(t *testing.T) {
	r := &Runner{}
	_, err := r.Capture(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for empty argv")
	}
}

func TestCapture_Dir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "subdir")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	r := &Runner{Dir: sub}
	res, err := r.Capture(context.Background(), []string{"pwd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Output, "subdir") {
		t.Errorf("Output = %q, want to contain 'subdir'", res.Output)
	}
}

func TestCapture_OutputTruncation(t *testing.T) {
	r := &Runner{MaxOutput: 100}

	res, err := r.Capture(context.Background(), []string{"sh", "-c", "dd if=/dev/zero bs=200 count=1 2>/dev/null"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Truncated {
		t.Error("Truncated = false, want true")
	}
	if len(res.Output) > r.MaxOutput {
		t.Errorf("len(Output) = %d, want <= %d", len(res.Output), r.MaxOutput)
	}
}

func TestCapture_Unlimited(t *testing.T) {
	r := &Runner{}
	res, err := r.Capture(context.Background(), []string{"sh", "-c", "dd if=/dev/zero bs=1024 count=256 2>/dev/null"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Truncated {
		t.Error("Truncated = true, want false")
	}
	if len(res.Output) != 256*1024 {
		t.Errorf("len(Output) = %d, want %d", len(res.Output), 256*1024)
	}
}

func TestDiscard_IgnoresExitStatus(t *testing.T) {
	r := &Runner{}
	if err := r.Discard(context.Background(), []string{"/usr/bin/false"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDiscard_VerboseChildDoesNotBlock(t *testing.T) {
	r := &Runner{}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Far more than any OS pipe buffer.
	err := r.Discard(ctx, []string{"sh", "-c", "dd if=/dev/zero bs=1024 count=4096 2>/dev/null; dd if=/dev/zero bs=1024 count=4096 >&2 2>/dev/null"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDiscard_BinaryNotFound(t *testing.T) {
	r := &Runner{}
	err := r.Discard(context.Background(), []string{"nonexistent-binary-xyz-123"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestDiscard_Cancelled(t *testing.T) {
	r := &Runner{}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := r.Discard(ctx, []string{"sleep", "10"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestQuote(t *testing.T) {
	got := Quote([]string{"ampy", "-p", "COM3", "put", "my file.py"})
	want := `ampy -p COM3 put "my file.py"`
	if got != want {
		t.Errorf("Quote = %q, want %q", got, want)
	}
}

func TestCapture_Cancelled(t *testing.T) {
	r := &Runner{}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := r.Capture(ctx, []string{"sleep", "10"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}
