package mcp

import (
	"context"
	"fmt"

	"github.com/deixis/ampyctl/internal/board"
	"github.com/deixis/ampyctl/internal/history"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type infoParams struct{}

func (h *handler) infoHandler(ctx context.Context, req *mcp.CallToolRequest, _ infoParams) (*mcp.CallToolResult, any, error) {
	return textResult(fmt.Sprintf("Device: %s\nPort: %d\nExecutable: %s\n", h.board.Device(), h.board.Port(), h.board.Executable()))
}

type lsParams struct {
	Path      string `json:"path,omitempty" jsonschema:"directory on the board. Default: /"`
	Long      bool   `json:"long,omitempty" jsonschema:"include file sizes (ampy ls -l)"`
	Recursive bool   `json:"recursive,omitempty" jsonschema:"list subdirectories too (ampy ls -r)"`
}

func (h *handler) lsHandler(ctx context.Context, req *mcp.CallToolRequest, params lsParams) (*mcp.CallToolResult, any, error) {
	res, err := h.board.ListDir(ctx, params.Path, board.ListOptions{LongFormat: params.Long, Recursive: params.Recursive})
	if err != nil {
		return errorResult(fmt.Sprintf("ls failed: %v", err))
	}
	path := params.Path
	if path == "" {
		path = "/"
	}
	h.record(history.OpList, path, res)
	return textResult(formatResult(res))
}

type getParams struct {
	Path string `json:"path,omitempty" jsonschema:"file on the board"`
}

func (h *handler) getHandler(ctx context.Context, req *mcp.CallToolRequest, params getParams) (*mcp.CallToolResult, any, error) {
	if params.Path == "" {
		return errorResult("path is required")
	}
	res, err := h.board.GetFileContent(ctx, params.Path)
	if err != nil {
		return errorResult(fmt.Sprintf("get failed: %v", err))
	}
	h.record(history.OpGet, params.Path, res)
	return textResult(formatResult(res))
}

type downloadParams struct {
	Path  string `json:"path,omitempty" jsonschema:"file on the board"`
	Local string `json:"local,omitempty" jsonschema:"destination path on the host"`
}

func (h *handler) downloadHandler(ctx context.Context, req *mcp.CallToolRequest, params downloadParams) (*mcp.CallToolResult, any, error) {
	if params.Path == "" || params.Local == "" {
		return errorResult("path and local are required")
	}
	if err := h.board.DownloadFile(ctx, params.Path, params.Local); err != nil {
		return errorResult(fmt.Sprintf("download failed: %v", err))
	}
	return textResult(fmt.Sprintf("Requested copy of %s to %s.\n", params.Path, params.Local))
}

type putParams struct {
	Local  string `json:"local,omitempty" jsonschema:"file or directory on the host"`
	Remote string `json:"remote,omitempty" jsonschema:"destination on the board. Default: same name in /"`
}

func (h *handler) putHandler(ctx context.Context, req *mcp.CallToolRequest, params putParams) (*mcp.CallToolResult, any, error) {
	if params.Local == "" {
		return errorResult("local is required")
	}
	if err := h.board.Upload(ctx, params.Local, params.Remote); err != nil {
		return errorResult(fmt.Sprintf("put failed: %v", err))
	}
	dest := params.Remote
	if dest == "" {
		dest = "(default)"
	}
	return textResult(fmt.Sprintf("Requested upload of %s to %s.\n", params.Local, dest))
}

type mkdirParams struct {
	Path        string `json:"path,omitempty" jsonschema:"directory to create on the board"`
	ExistsOkay  bool   `json:"exists_okay,omitempty" jsonschema:"do not fail if the directory exists"`
	MakeParents bool   `json:"make_parents,omitempty" jsonschema:"create missing parent directories"`
}

func (h *handler) mkdirHandler(ctx context.Context, req *mcp.CallToolRequest, params mkdirParams) (*mcp.CallToolResult, any, error) {
	if params.Path == "" {
		return errorResult("path is required")
	}
	opts := board.MkdirOptions{ExistsOkay: params.ExistsOkay, MakeParents: params.MakeParents}
	if err := h.board.MakeDir(ctx, params.Path, opts); err != nil {
		return errorResult(fmt.Sprintf("mkdir failed: %v", err))
	}
	return textResult(fmt.Sprintf("Requested mkdir %s.\n", params.Path))
}

type rmParams struct {
	Path string `json:"path,omitempty" jsonschema:"file to remove from the board"`
}

func (h *handler) rmHandler(ctx context.Context, req *mcp.CallToolRequest, params rmParams) (*mcp.CallToolResult, any, error) {
	if params.Path == "" {
		return errorResult("path is required")
	}
	if err := h.board.RemoveFile(ctx, params.Path); err != nil {
		return errorResult(fmt.Sprintf("rm failed: %v", err))
	}
	return textResult(fmt.Sprintf("Requested rm %s.\n", params.Path))
}

type rmdirParams struct {
	Path        string `json:"path,omitempty" jsonschema:"directory to remove from the board"`
	MissingOkay bool   `json:"missing_okay,omitempty" jsonschema:"do not fail if the directory does not exist"`
}

func (h *handler) rmdirHandler(ctx context.Context, req *mcp.CallToolRequest, params rmdirParams) (*mcp.CallToolResult, any, error) {
	if params.Path == "" {
		return errorResult("path is required")
	}
	if err := h.board.RemoveDir(ctx, params.Path, board.RmdirOptions{MissingOkay: params.MissingOkay}); err != nil {
		return errorResult(fmt.Sprintf("rmdir failed: %v", err))
	}
	return textResult(fmt.Sprintf("Requested rmdir %s.\n", params.Path))
}
