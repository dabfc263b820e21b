package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalmanmoshe/fencedit/internal/clipboard"
	"github.com/kalmanmoshe/fencedit/internal/input"
	"github.com/kalmanmoshe/fencedit/internal/ui"
)

// copyText writes to the system clipboard; tests replace it.
var copyText = clipboard.CopyText

var copyLine int

var copyCmd = &cobra.Command{
	Use:   "copy <path:line>",
	Short: "Copy the block around a line to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		spec, err := parseTarget(args[0], copyLine)
		if err != nil {
			return err
		}
		return a.runCopy(cmd.OutOrStdout(), spec)
	},
}

func init() {
	rootCmd.AddCommand(copyCmd)
	copyCmd.Flags().IntVarP(&copyLine, "line", "l", 0, "Cursor line (1-based)")
}

func (a *app) runCopy(w io.Writer, spec input.CursorSpec) error {
	b, err := a.open(spec)
	if err != nil {
		return err
	}
	if err := copyText(b.data.Content); err != nil {
		return err
	}
	lines := strings.Count(b.data.Content, "\n") + 1
	fmt.Fprintln(w, ui.NewStyles(w).FormatResult(true, fmt.Sprintf("copied %d lines of %s from %s", lines, b.data.Language, b.label())))
	return nil
}
