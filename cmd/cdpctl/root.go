package main

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nugget/cdpmux/internal/buildinfo"
	"github.com/nugget/cdpmux/internal/cdpcfg"
)

// globalFlags holds the flags shared by every subcommand.
type globalFlags struct {
	debuggingURL string
	logLevel     string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "cdpctl",
		Short: "Drive a browser over the Chrome DevTools Protocol",
		Long:  "cdpctl connects to a browser's remote-debugging endpoint and runs one command against it.",
	}

	root.PersistentFlags().StringVar(&flags.debuggingURL, "debugging-url", "http://localhost:9222",
		"browser debugging endpoint (http:// base or ws:// URL)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info",
		"log level: trace, debug, info, warn, error")

	root.AddCommand(
		newVersionCmd(),
		newTargetsCmd(flags),
		newNavigateCmd(flags),
		newEvalCmd(flags),
		newListenCmd(flags),
	)
	return root
}

// newLogger builds this invocation's logger, tagged with a fresh trace
// ID so a run's log lines can be grepped out of a shared terminal or
// log aggregator.
func (f *globalFlags) newLogger() *slog.Logger {
	level, err := cdpcfg.ParseLogLevel(f.logLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: cdpcfg.ReplaceLogLevelNames,
	}))
	return logger.With("trace_id", uuid.NewString())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(buildinfo.String())
			for k, v := range buildinfo.BuildInfo() {
				cmd.Printf("  %-12s %s\n", k+":", v)
			}
			return nil
		},
	}
}

var (
	errColor = color.New(color.FgRed, color.Bold)
	okColor  = color.New(color.FgGreen)
	keyColor = color.New(color.FgCyan)
)

func printErr(cmd *cobra.Command, format string, args ...any) {
	errColor.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}
