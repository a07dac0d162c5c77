package main

import (
	"fmt"
	"io"
	"os"

	"github.com/deixis/ampyctl/internal/board"
	"github.com/deixis/ampyctl/internal/runner"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runFlags struct {
	noWait bool
	stream bool
	stdin  bool
}

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a local script on the board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		script := args[0]
		switch {
		case runFlags.noWait && runFlags.stream:
			return fmt.Errorf("--no-wait and --stream are mutually exclusive")
		case runFlags.noWait:
			return app.board.RunNoWait(ctx, script)
		case runFlags.stream:
			s, err := app.board.RunStreaming(ctx, script)
			if err != nil {
				return err
			}
			return follow(s)
		default:
			res, err := app.board.Run(ctx, script)
			if err != nil {
				return err
			}
			return printResult(res)
		}
	},
}

// ANSI colour for stderr lines on a terminal.
const (
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

// follow prints session lines as they arrive until the script exits.
func follow(s *runner.Session) error {
	if runFlags.stdin {
		go func() {
			if _, err := io.Copy(s.Stdin(), os.Stdin); err != nil {
				app.log.Debug("stdin copy", zap.Error(err))
			}
			_ = s.Stdin().Close()
		}()
	}

	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	for l := range s.Lines() {
		writeLine(os.Stdout, os.Stderr, color, l)
	}

	code, err := s.Wait()
	if err != nil {
		return err
	}
	if code != 0 {
		return &exitError{code: code}
	}
	return nil
}

// writeLine sends l to the writer matching its stream. color only affects
// stderr lines.
func writeLine(stdout, stderr io.Writer, color bool, l runner.Line) {
	switch {
	case l.Stream == runner.Stderr && color:
		fmt.Fprintf(stderr, "%s%s%s\n", colorRed, l.Text, colorReset)
	case l.Stream == runner.Stderr:
		fmt.Fprintln(stderr, l.Text)
	default:
		fmt.Fprintln(stdout, l.Text)
	}
}

var resetCmd = &cobra.Command{
	Use:       "reset [repl|hard|safe|bootloader]",
	Short:     "Reset the board (default repl)",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"repl", "hard", "safe", "bootloader"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		}
		mode, err := board.ParseResetMode(name)
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()
		return app.board.Reset(ctx, mode)
	},
}

func init() {
	runCmd.Flags().BoolVarP(&runFlags.noWait, "no-wait", "n", false, "start the script and return immediately")
	runCmd.Flags().BoolVarP(&runFlags.stream, "stream", "s", false, "print output as the script produces it")
	runCmd.Flags().BoolVar(&runFlags.stdin, "stdin", false, "forward standard input to the script (with --stream)")

	rootCmd.AddCommand(runCmd, resetCmd)
}
