package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/kalmanmoshe/fencedit/internal/input"
	"github.com/kalmanmoshe/fencedit/internal/signal"
)

var (
	editLine int
	editYes  bool
)

var editCmd = &cobra.Command{
	Use:   "edit <path:line>",
	Short: "Edit the block around a line in $EDITOR",
	Long: `Open the content of the innermost block containing a line in your
editor. The temp file is named after the block's language so the editor
picks the right mode. On exit the change is shown as a diff, confirmed,
written back and recorded in the history.

The editor is edit.editor from the config, else $EDITOR, else $VISUAL, else vi.

Examples:
  fencedit edit notes.md:42
  fencedit edit notes.md -l 42 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		spec, err := parseTarget(args[0], editLine)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context())
		defer stop()
		return a.runEdit(ctx, cmd.OutOrStdout(), spec, editYes)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().IntVarP(&editLine, "line", "l", 0, "Cursor line (1-based)")
	editCmd.Flags().BoolVarP(&editYes, "yes", "y", false, "Apply without confirmation")
}

func (a *app) runEdit(ctx context.Context, w io.Writer, spec input.CursorSpec, yes bool) error {
	b, err := a.open(spec)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "fencedit-*."+a.registry.Extension(b.data.Language))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(b.data.Content + "\n"); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	argv := append(editorCommand(a.cfg), tmpPath)
	editorCmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor %s: %w", argv[0], err)
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("read temp file: %w", err)
	}
	return a.applyContent(ctx, w, b, trimFinalNewline(string(edited)), applyOptions{yes: yes})
}
