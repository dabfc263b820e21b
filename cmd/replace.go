package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kalmanmoshe/fencedit/internal/clipboard"
	"github.com/kalmanmoshe/fencedit/internal/input"
)

var (
	replaceLine          int
	replaceFromFile      string
	replaceFromClipboard bool
	replaceDryRun        bool
	replaceYes           bool
)

var replaceCmd = &cobra.Command{
	Use:   "replace <path:line>",
	Short: "Replace the content of the block around a line",
	Long: `Replace the content of the innermost block containing a line. The new
content comes from stdin unless --from-file or --from-clipboard is given.
Delimiter lines are kept; one trailing newline in the input is dropped.

Examples:
  echo 'print("hi")' | fencedit replace notes.md:42
  fencedit replace notes.md:42 --from-file snippet.py --yes
  fencedit replace notes.md:42 --from-clipboard --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		spec, err := parseTarget(args[0], replaceLine)
		if err != nil {
			return err
		}
		content, err := replacementContent(cmd.InOrStdin())
		if err != nil {
			return err
		}
		return a.runReplace(cmd.Context(), cmd.OutOrStdout(), spec, content, applyOptions{
			dryRun: replaceDryRun,
			yes:    replaceYes,
		})
	},
}

func init() {
	rootCmd.AddCommand(replaceCmd)
	replaceCmd.Flags().IntVarP(&replaceLine, "line", "l", 0, "Cursor line (1-based)")
	replaceCmd.Flags().StringVarP(&replaceFromFile, "from-file", "f", "", "Read new content from a file")
	replaceCmd.Flags().BoolVar(&replaceFromClipboard, "from-clipboard", false, "Read new content from the clipboard")
	replaceCmd.Flags().BoolVarP(&replaceDryRun, "dry-run", "n", false, "Print the diff without writing")
	replaceCmd.Flags().BoolVarP(&replaceYes, "yes", "y", false, "Apply without confirmation")
	replaceCmd.MarkFlagsMutuallyExclusive("from-file", "from-clipboard")
}

// replacementContent reads the new block content from the selected source.
func replacementContent(stdin io.Reader) (string, error) {
	switch {
	case replaceFromFile != "":
		data, err := os.ReadFile(replaceFromFile)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", replaceFromFile, err)
		}
		return trimFinalNewline(string(data)), nil

	case replaceFromClipboard:
		text, err := clipboard.ReadText()
		if err != nil {
			return "", err
		}
		return trimFinalNewline(text), nil
	}

	var text string
	var err error
	if f, ok := stdin.(*os.File); ok && f == os.Stdin {
		if !input.HasStdin() {
			return "", errors.New("no replacement content: pipe it on stdin or use --from-file or --from-clipboard")
		}
		text, err = input.ReadStdin()
	} else {
		text, err = input.ReadAll(stdin)
	}
	if err != nil {
		return "", err
	}
	return trimFinalNewline(text), nil
}

func (a *app) runReplace(ctx context.Context, w io.Writer, spec input.CursorSpec, content string, opts applyOptions) error {
	b, err := a.open(spec)
	if err != nil {
		return err
	}
	return a.applyContent(ctx, w, b, content, opts)
}
