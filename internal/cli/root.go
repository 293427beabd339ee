package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/cortex/internal/api"
	"github.com/dshills/cortex/internal/config"
	"github.com/dshills/cortex/internal/gitctx"
	"github.com/dshills/cortex/internal/staging"
	"github.com/dshills/cortex/internal/ui"
)

// Set at build time.
var version = "dev"

// Exit codes. Nothing-to-do outcomes exit successfully.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Global flags
var (
	logLevel  string
	logFormat string
	workDir   string
)

var rootCmd = &cobra.Command{
	Use:   "cortex",
	Short: "Generate commit messages from staged changes",
	Long: `cortex stages the changes you select, sends the staged diff to the
commit-message service and offers to commit, or commit and push, with the
message it returns.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", "", "Run as if started in this directory")

	rootCmd.AddCommand(commitMessageCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Run executes the root command and returns an exit code.
func Run() int {
	ctx, cancel := setupSignalHandler()
	defer cancel()
	return execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	return reportError(ui.NewPrinter(stderr), err)
}

// reportError prints err for the operator and returns the exit code it maps
// to.
func reportError(p *ui.Printer, err error) int {
	var noop *staging.NoOpError
	if errors.As(err, &noop) {
		p.Notice(noop.Reason)
		return ExitSuccess
	}

	p.Error("Error: " + err.Error())
	switch {
	case errors.Is(err, config.ErrMissingToken):
		p.Notice("Please set it with your API token to use this command")
	case errors.Is(err, gitctx.ErrNotRepository):
		p.Notice("Please run this command from within a git repository")
	case api.IsAuthError(err):
		p.Notice("Check the value of " + config.TokenEnv)
	case errors.Is(err, config.ErrUnknownOption):
		p.Detail(fmt.Sprintf("Recognized options: %v", config.RecognizedKeys()))
	}
	return ExitFailure
}

func setupLogger(w io.Writer, level *slog.LevelVar) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if logFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// newLevel parses --log-level. The level can be lowered later, when a verbose
// setting only becomes known after the config file is read.
func newLevel(verbose bool) *slog.LevelVar {
	level := new(slog.LevelVar)
	switch logLevel {
	case "debug":
		level.Set(slog.LevelDebug)
	case "info":
		level.Set(slog.LevelInfo)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelWarn)
	}
	if verbose {
		level.Set(slog.LevelDebug)
	}
	return level
}

func setupSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// resolveWorkDir returns the --dir value made absolute, or the process
// working directory.
func resolveWorkDir() (string, error) {
	if workDir == "" {
		return os.Getwd()
	}
	info, err := os.Stat(workDir)
	if err != nil {
		return "", fmt.Errorf("working directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("working directory: %s is not a directory", workDir)
	}
	return filepath.Abs(workDir)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print cortex version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cortex version %s\n", version)
	},
}
