package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/deixis/ampyctl/internal/board"
	"github.com/deixis/ampyctl/internal/config"
	"github.com/deixis/ampyctl/internal/runner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var flags struct {
	port    int
	exe     string
	envFile string
	verbose bool
}

// app is built once per invocation in PersistentPreRunE.
var app struct {
	cfg   *config.Config
	log   *zap.Logger
	board *board.Board
}

var rootCmd = &cobra.Command{
	Use:   "ampyctl",
	Short: "Manage files on a MicroPython board through ampy",
	Long: `ampyctl runs the ampy tool against the board on serial port COM<port>.

Settings come from the nearest .ampyctl file, then AMPYCTL_PORT and
AMPYCTL_EXECUTABLE (optionally read from a .env file), then flags.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if app.log != nil {
			_ = app.log.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVarP(&flags.port, "port", "p", 0, "serial port number (COM<port>); overrides config")
	pf.StringVar(&flags.exe, "exe", "", "ampy executable; overrides config")
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file with AMPYCTL_* variables")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log ampy invocations")
}

func setup(cmd *cobra.Command, _ []string) error {
	log, err := newLogger(flags.verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	app.log = log

	if err := config.LoadEnv(flags.envFile); err != nil {
		return fmt.Errorf("loading %s: %w", flags.envFile, err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining working directory: %w", err)
	}
	loaded, err := config.Load(wd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := loaded.Config
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.RawPort = &flags.port
	}
	if flags.exe != "" {
		cfg.RawExecutable = flags.exe
	}
	app.cfg = cfg

	if loaded.Path != "" {
		log.Debug("config", zap.String("path", loaded.Path))
	}

	r := &runner.Runner{
		Dir:       cfg.Dir,
		MaxOutput: cfg.MaxOutput,
		Log:       log,
	}
	app.board = board.New(cfg.Port(),
		board.WithExecutable(cfg.Executable()),
		board.WithRunner(r),
		board.WithLogger(log),
	)
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// signalContext returns a context cancelled on interrupt; cancelling it
// kills the running ampy process.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// printResult writes a capture result to the console and turns a non-zero
// ampy exit status into the process exit status.
func printResult(res *runner.Result) error {
	fmt.Fprint(os.Stdout, res.Output)
	fmt.Fprint(os.Stderr, res.Error)
	if res.Truncated {
		app.log.Warn("output truncated", zap.Int("max_output", app.cfg.MaxOutput))
	}
	if res.ExitCode != 0 {
		return &exitError{code: res.ExitCode}
	}
	return nil
}
