package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/deixis/ampyctl/internal/history"
	"github.com/deixis/ampyctl/internal/runner"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type outputParams struct {
	RunID  string `json:"run_id,omitempty" jsonschema:"the run ID printed by board_ls, board_get or board_run. Omit to list recent runs"`
	Stream string `json:"stream,omitempty" jsonschema:"stdout (default) or stderr"`
	Offset int    `json:"offset,omitempty" jsonschema:"first line to return, 0-based"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of lines to return. Default: all"`
}

func (h *handler) outputHandler(ctx context.Context, req *mcp.CallToolRequest, params outputParams) (*mcp.CallToolResult, any, error) {
	if h.store == nil {
		return errorResult("run history is disabled")
	}
	if params.RunID == "" {
		return textResult(formatRecent(h.store.Recent()))
	}

	stream := runner.Stdout
	switch params.Stream {
	case "", "stdout":
	case "stderr":
		stream = runner.Stderr
	default:
		return errorResult(fmt.Sprintf("unknown stream %q: want stdout or stderr", params.Stream))
	}

	entry, err := h.store.Load(params.RunID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load run %s: %v", params.RunID, err))
	}

	lines, total := history.Lines(entry.Text(stream), params.Offset, params.Limit)

	start := min(max(params.Offset, 0), total)

	var b strings.Builder
	fmt.Fprintf(&b, "Run: %s (%s %s on %s)\n", entry.ID, entry.Op, entry.Target, entry.Device)
	fmt.Fprintf(&b, "Exit: %d\n", entry.Result.ExitCode)
	fmt.Fprintf(&b, "%s: lines %d-%d of %d\n\n", stream, start, start+len(lines), total)
	for _, l := range lines {
		fmt.Fprintln(&b, l)
	}
	return textResult(b.String())
}

func formatRecent(entries []*history.Entry) string {
	if len(entries) == 0 {
		return "No runs recorded.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Recent runs (%d):\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "  %s  %s  %-3s %s  exit %d\n", e.ID, e.Time.Format("15:04:05"), e.Op, e.Target, e.Result.ExitCode)
	}
	return b.String()
}
