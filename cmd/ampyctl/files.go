package main

import (
	"github.com/deixis/ampyctl/internal/board"
	"github.com/spf13/cobra"
)

var lsOpts board.ListOptions

var lsCmd = &cobra.Command{
	Use:   "ls [dir]",
	Short: "List a directory on the board (default /)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		var dir string
		if len(args) == 1 {
			dir = args[0]
		}
		res, err := app.board.ListDir(ctx, dir, lsOpts)
		if err != nil {
			return err
		}
		return printResult(res)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <remote> [local]",
	Short: "Print a board file, or copy it to a local path",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		if len(args) == 2 {
			return app.board.DownloadFile(ctx, args[0], args[1])
		}
		res, err := app.board.GetFileContent(ctx, args[0])
		if err != nil {
			return err
		}
		return printResult(res)
	},
}

var putCmd = &cobra.Command{
	Use:   "put <local> [remote]",
	Short: "Copy a local file or directory to the board",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		var remote string
		if len(args) == 2 {
			remote = args[1]
		}
		return app.board.Upload(ctx, args[0], remote)
	},
}

var mkdirOpts board.MkdirOptions

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <dir>",
	Short: "Create a directory on the board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()
		return app.board.MakeDir(ctx, args[0], mkdirOpts)
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <remote>",
	Short: "Remove a file from the board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()
		return app.board.RemoveFile(ctx, args[0])
	},
}

var rmdirOpts board.RmdirOptions

var rmdirCmd = &cobra.Command{
	Use:   "rmdir <dir>",
	Short: "Remove a directory and its contents from the board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()
		return app.board.RemoveDir(ctx, args[0], rmdirOpts)
	},
}

func init() {
	lsCmd.Flags().BoolVarP(&lsOpts.LongFormat, "long", "l", false, "long format with sizes")
	lsCmd.Flags().BoolVarP(&lsOpts.Recursive, "recursive", "r", false, "list subdirectories")

	mkdirCmd.Flags().BoolVar(&mkdirOpts.ExistsOkay, "exists-okay", false, "ignore an existing directory")
	mkdirCmd.Flags().BoolVar(&mkdirOpts.MakeParents, "make-parents", false, "create parent directories")

	rmdirCmd.Flags().BoolVar(&rmdirOpts.MissingOkay, "missing-okay", false, "ignore a missing directory")

	rootCmd.AddCommand(lsCmd, getCmd, putCmd, mkdirCmd, rmCmd, rmdirCmd)
}
