package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/deixis/ampyctl/internal/board"
	"github.com/deixis/ampyctl/internal/history"
	"github.com/deixis/ampyctl/internal/runner"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type runParams struct {
	Script string `json:"script,omitempty" jsonschema:"path of the script on the host"`
	NoWait bool   `json:"no_wait,omitempty" jsonschema:"start the script and return without waiting for output (ampy run -n)"`
	Stream bool   `json:"stream,omitempty" jsonschema:"read output line by line while the script runs (ampy run -s)"`
}

func (h *handler) runHandler(ctx context.Context, req *mcp.CallToolRequest, params runParams) (*mcp.CallToolResult, any, error) {
	if params.Script == "" {
		return errorResult("script is required")
	}
	if params.NoWait && params.Stream {
		return errorResult("no_wait and stream are mutually exclusive")
	}

	switch {
	case params.NoWait:
		if err := h.board.RunNoWait(ctx, params.Script); err != nil {
			return errorResult(fmt.Sprintf("run failed: %v", err))
		}
		return textResult(fmt.Sprintf("Started %s on %s.\n", params.Script, h.board.Device()))

	case params.Stream:
		s, err := h.board.RunStreaming(ctx, params.Script)
		if err != nil {
			return errorResult(fmt.Sprintf("run failed: %v", err))
		}
		return textResult(drainSession(s))

	default:
		res, err := h.board.Run(ctx, params.Script)
		if err != nil {
			return errorResult(fmt.Sprintf("run failed: %v", err))
		}
		h.record(history.OpRun, params.Script, res)
		return textResult(formatResult(res))
	}
}

// drainSession reads a session to completion and renders its lines in
// arrival order, tagging stderr. The script gets EOF on stdin immediately.
func drainSession(s *runner.Session) string {
	_ = s.Stdin().Close()

	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n\n", s.ID)
	n := 0
	for l := range s.Lines() {
		n++
		if l.Stream == runner.Stderr {
			fmt.Fprintf(&b, "[stderr] %s\n", l.Text)
		} else {
			fmt.Fprintf(&b, "%s\n", l.Text)
		}
	}
	if n == 0 {
		fmt.Fprintln(&b, "(no output)")
	}
	code, err := s.Wait()
	fmt.Fprintln(&b)
	if err != nil {
		fmt.Fprintf(&b, "Ended: %v\n", err)
	} else {
		fmt.Fprintf(&b, "Exit: %d\n", code)
	}
	return b.String()
}

type resetParams struct {
	Mode string `json:"mode,omitempty" jsonschema:"one of repl, hard, safe, bootloader. Default: repl"`
}

func (h *handler) resetHandler(ctx context.Context, req *mcp.CallToolRequest, params resetParams) (*mcp.CallToolResult, any, error) {
	mode, err := board.ParseResetMode(params.Mode)
	if err != nil {
		return errorResult(err.Error())
	}
	if err := h.board.Reset(ctx, mode); err != nil {
		return errorResult(fmt.Sprintf("reset failed: %v", err))
	}
	return textResult(fmt.Sprintf("Requested %s reset of %s.\n", mode, h.board.Device()))
}
