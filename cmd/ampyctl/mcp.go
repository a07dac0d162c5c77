package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/deixis/ampyctl/internal/history"
	boardmcp "github.com/deixis/ampyctl/internal/mcp"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mcpFlags struct {
	instructions bool
	httpAddr     string
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if mcpFlags.instructions {
			fmt.Print(boardmcp.Instructions)
			return nil
		}

		ctx, stop := signalContext()
		defer stop()
		return serve(ctx, mcpFlags.httpAddr)
	},
}

func init() {
	mcpCmd.Flags().BoolVar(&mcpFlags.instructions, "instructions", false, "print model instructions and exit")
	mcpCmd.Flags().StringVar(&mcpFlags.httpAddr, "http", "", "start HTTP server on address (e.g. :9090)")
	rootCmd.AddCommand(mcpCmd)
}

func serve(ctx context.Context, httpAddr string) error {
	store := history.NewLRUStore(app.cfg.HistorySize(), history.NewDiskStore(app.cfg.HistoryDir))
	server := boardmcp.NewServer(app.board, store, boardmcp.WithLogger(app.log))

	app.log.Info("serving board", zap.String("device", app.board.Device()), zap.String("exe", app.board.Executable()))

	if httpAddr != "" {
		return serveHTTP(ctx, server, httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	app.log.Info("listening", zap.String("addr", addr))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
