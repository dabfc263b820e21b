package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kalmanmoshe/fencedit/internal/ui"
)

var (
	showLine        int
	showContentOnly bool
	showRender      bool
	showJSON        bool
)

var showCmd = &cobra.Command{
	Use:   "show <path:line>",
	Short: "Show the block around a line",
	Long: `Show the innermost fenced block containing a line (1-based).

Examples:
  fencedit show notes.md:42
  fencedit show notes.md --line 42 --content-only
  fencedit show notes.md:42 --render`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		spec, err := parseTarget(args[0], showLine)
		if err != nil {
			return err
		}
		b, err := a.open(spec)
		if err != nil {
			return err
		}
		return a.runShow(cmd.OutOrStdout(), b, showOptions{
			contentOnly: showContentOnly,
			render:      showRender,
			json:        showJSON,
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&showLine, "line", "l", 0, "Cursor line (1-based)")
	showCmd.Flags().BoolVar(&showContentOnly, "content-only", false, "Print only the block content")
	showCmd.Flags().BoolVar(&showRender, "render", false, "Render the block with glamour")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output JSON")
}

type showOptions struct {
	contentOnly bool
	render      bool
	json        bool
}

// showResult is the JSON form of a block, with 1-based delimiter lines.
type showResult struct {
	Path     string `json:"path"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Tag      string `json:"tag"`
	Language string `json:"language"`
	Refined  bool   `json:"refined"`
	Content  string `json:"content"`
}

func (a *app) runShow(w io.Writer, b *block, opts showOptions) error {
	switch {
	case opts.json:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(showResult{
			Path:     b.spec.Path,
			Start:    b.span.Start + 1,
			End:      b.span.End + 1,
			Tag:      b.data.Tag,
			Language: b.data.Language,
			Refined:  b.ctx.Refined(),
			Content:  b.data.Content,
		})

	case opts.contentOnly:
		_, err := fmt.Fprintln(w, b.data.Content)
		return err

	case opts.render:
		out, err := ui.RenderBlock(b.data.Language, b.data.Content, a.cfg.Display.GlamourStyle, ui.TerminalWidth(w, 80))
		if err != nil {
			return fmt.Errorf("render block: %w", err)
		}
		_, err = fmt.Fprintln(w, out)
		return err
	}

	styles := ui.NewStyles(w)
	kind := "refined"
	if !b.ctx.Refined() {
		kind = "coarse"
	}
	header := fmt.Sprintf("%s  %s", b.label(), styles.Highlighted.Render(b.data.Language))
	if b.data.Tag != "" && b.data.Tag != b.data.Language {
		header += styles.Muted.Render(" (" + b.data.Tag + ")")
	}
	header += styles.Muted.Render("  " + kind)
	fmt.Fprintln(w, header)

	content := b.data.Content
	if ui.ColorEnabled(w) {
		content = a.highlighter(b.data.Language).Highlight(content)
	}
	_, err := fmt.Fprintln(w, content)
	return err
}
