package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kalmanmoshe/fencedit/internal/ui"
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/fencedit/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Log resolver decisions to stderr")
	rootCmd.PersistentFlags().StringVar(&indexFlag, "index", "", "Section index: nested, commonmark or none (overrides config)")
	if err := rootCmd.RegisterFlagCompletionFunc("index", indexFlagCompletion); err != nil {
		panic("failed to register index completion: " + err.Error())
	}
}

var rootCmd = &cobra.Command{
	Use:   "fencedit",
	Short: "Inspect and edit fenced code blocks in markdown files",
	Long: `fencedit finds the fenced code block around a line of a markdown file,
including blocks nested inside other blocks, and reads or rewrites its content.

Examples:
  fencedit blocks notes/**/*.md           # list every block
  fencedit show notes.md:42               # block around line 42
  fencedit edit notes.md:42               # edit it in $EDITOR
  pbpaste | fencedit replace notes.md:42  # replace from stdin
  fencedit undo notes.md                  # revert the last replace
  fencedit lang py                        # resolve a fence tag`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd.ErrOrStderr(), debugLog)
	},
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

var (
	configFile string
	debugLog   bool
	indexFlag  string
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.ShowError(err.Error())
		os.Exit(1)
	}
}

// setupLogging installs the default slog logger on w. Warnings and errors
// are always shown; --debug adds resolver decisions.
func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func indexFlagCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"nested", "commonmark", "none"}, cobra.ShellCompDirectiveNoFileComp
}
