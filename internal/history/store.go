// Package history keeps captured ampy runs so their output can be fetched
// again by run ID after the call that produced it has returned.
package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/deixis/ampyctl/internal/runner"
)

// Op identifies the board operation that produced an entry.
type Op string

const (
	OpList Op = "ls"
	OpGet  Op = "get"
	OpRun  Op = "run"
)

// Store persists and retrieves entries.
type Store interface {
	Save(entry *Entry) error
	Load(runID string) (*Entry, error)
}

// Entry is one captured run.
type Entry struct {
	ID     string         `json:"id"`
	Op     Op             `json:"op"`
	Device string         `json:"device"`
	Target string         `json:"target,omitempty"` // remote path, local script, or listed dir
	Time   time.Time      `json:"time"`
	Result *runner.Result `json:"result"`
}

// NewEntry wraps a capture result. The entry ID is the result's run ID.
func NewEntry(op Op, device, target string, res *runner.Result) *Entry {
	return &Entry{
		ID:     res.RunID,
		Op:     op,
		Device: device,
		Target: target,
		Time:   time.Now().UTC(),
		Result: res,
	}
}

// Expect returns an error if the entry's Op does not match want.
func (e *Entry) Expect(want Op) error {
	if e.Op != want {
		return fmt.Errorf("run %s is a %s run, not a %s run", e.ID, e.Op, want)
	}
	return nil
}

// Text returns the captured text of stream.
func (e *Entry) Text(stream runner.Stream) string {
	if stream == runner.Stderr {
		return e.Result.Error
	}
	return e.Result.Output
}

// Lines returns up to limit lines of text starting at line offset (0-based),
// and the total line count. A limit <= 0 returns everything after offset.
func Lines(text string, offset, limit int) ([]string, int) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil, 0
	}
	all := strings.Split(text, "\n")
	total := len(all)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return nil, total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return all[offset:end], total
}
