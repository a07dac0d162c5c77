// Package mcp provides the ampyctl MCP server, exposing board file
// operations as tools.
package mcp

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/deixis/ampyctl"
	"github.com/deixis/ampyctl/internal/board"
	"github.com/deixis/ampyctl/internal/history"
	"github.com/deixis/ampyctl/internal/runner"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	board *board.Board
	store *history.LRUStore
	log   *zap.Logger
}

// NewServer creates an MCP server with all board tools registered.
func NewServer(b *board.Board, store *history.LRUStore, opts ...ServerOption) *mcp.Server {
	var so serverOptions
	for _, o := range opts {
		o(&so)
	}
	h := &handler{
		board: b,
		store: store,
		log:   so.log,
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}

	s := mcp.NewServer(&mcp.Implementation{Name: "ampyctl", Version: ampyctl.Version}, &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	})

	mcp.AddTool(s, &mcp.Tool{
		Name:        "board_info",
		Description: "Show which serial device and ampy executable the server drives.",
	}, h.infoHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "board_ls",
		Description: `List a directory on the board.

Output is stored; fetch it again with board_output(run_id).`,
	}, h.lsHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "board_get",
		Description: "Print the content of a file on the board.",
	}, h.getHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "board_download",
		Description: "Copy a file from the board to a path on the host.",
	}, h.downloadHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "board_put",
		Description: "Copy a host file or directory to the board.",
	}, h.putHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "board_mkdir",
		Description: "Create a directory on the board.",
	}, h.mkdirHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "board_rm",
		Description: "Remove a file from the board.",
	}, h.rmHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "board_rmdir",
		Description: "Remove a directory and everything under it from the board.",
	}, h.rmdirHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "board_reset",
		Description: "Reset the board. Modes: repl (default), hard, safe, bootloader.",
	}, h.resetHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "board_run",
		Description: `Run a host script on the board.

By default waits for the script and returns its output. no_wait=true starts it and
returns immediately. stream=true reads output line by line as it is produced and
returns it in arrival order with stderr lines tagged.`,
	}, h.runHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "board_output",
		Description: `Fetch stored output of an earlier board_ls, board_get or board_run call.

Without run_id, lists the most recent runs.`,
	}, h.outputHandler)

	return s
}

// ServerOption configures the MCP server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	log *zap.Logger
}

// WithLogger attaches a logger to the server's handlers.
func WithLogger(l *zap.Logger) ServerOption {
	return func(o *serverOptions) {
		o.log = l
	}
}

// record stores a capture result for board_output. Failures are logged only.
func (h *handler) record(op history.Op, target string, res *runner.Result) {
	if h.store == nil {
		return
	}
	if err := h.store.Save(history.NewEntry(op, h.board.Device(), target, res)); err != nil {
		h.log.Warn("saving run", zap.String("run_id", res.RunID), zap.Error(err))
	}
}

// formatResult renders a capture result. Exit status and stderr are shown
// as-is and never turned into a tool error.
func formatResult(res *runner.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run: %s\n", res.RunID)
	fmt.Fprintf(&b, "Exit: %d\n", res.ExitCode)
	if res.Truncated {
		fmt.Fprintln(&b, "Output truncated.")
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "stdout:")
	writeIndented(&b, res.Output)
	if res.Error != "" {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "stderr:")
		writeIndented(&b, res.Error)
	}
	return b.String()
}

func writeIndented(b *strings.Builder, text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		fmt.Fprintln(b, "    (empty)")
		return
	}
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(b, "    %s\n", line)
	}
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
