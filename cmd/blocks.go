package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalmanmoshe/fencedit/internal/document"
	"github.com/kalmanmoshe/fencedit/internal/fence"
	"github.com/kalmanmoshe/fencedit/internal/input"
	"github.com/kalmanmoshe/fencedit/internal/ui"
)

var blocksJSON bool

var blocksCmd = &cobra.Command{
	Use:   "blocks <path|glob>...",
	Short: "List fenced blocks",
	Long: `List every fenced block in the given files, nested blocks included.
Directories are searched for markdown files; globs support **.

Examples:
  fencedit blocks README.md
  fencedit blocks 'notes/**/*.md' --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		paths, err := input.ExpandPaths(args)
		if err != nil {
			return err
		}
		return a.runBlocks(cmd.OutOrStdout(), paths, blocksJSON)
	},
}

func init() {
	rootCmd.AddCommand(blocksCmd)
	blocksCmd.Flags().BoolVar(&blocksJSON, "json", false, "Output JSON")
}

// blockInfo describes one block with 1-based delimiter lines.
type blockInfo struct {
	Path     string `json:"path"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Depth    int    `json:"depth"`
	Tag      string `json:"tag"`
	Language string `json:"language"`
	Preview  string `json:"preview"`
}

func (a *app) collectBlocks(path string) ([]blockInfo, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, err
	}

	spans := fence.ParseNestedBlocks(doc.Text())
	depths := fence.Depths(spans)
	out := make([]blockInfo, 0, len(spans))
	for i, s := range spans {
		tag := fence.Tag(doc.Line(s.Start))
		preview := ""
		if s.Start+1 < s.End {
			preview = strings.TrimSpace(doc.Line(s.Start + 1))
		}
		out = append(out, blockInfo{
			Path:     path,
			Start:    s.Start + 1,
			End:      s.End + 1,
			Depth:    depths[i],
			Tag:      tag,
			Language: a.registry.Resolve(tag),
			Preview:  preview,
		})
	}
	return out, nil
}

func (a *app) runBlocks(w io.Writer, paths []string, asJSON bool) error {
	var all []blockInfo
	for _, p := range paths {
		blocks, err := a.collectBlocks(p)
		if err != nil {
			return err
		}
		all = append(all, blocks...)
	}

	if asJSON {
		if all == nil {
			all = []blockInfo{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(all)
	}

	styles := ui.NewStyles(w)
	width := ui.TerminalWidth(w, 100)
	for _, b := range all {
		loc := fmt.Sprintf("%s:%d-%d", b.Path, b.Start, b.End)
		indent := strings.Repeat("  ", b.Depth)
		head := fmt.Sprintf("%s%s  %s", indent, loc, b.Language)
		if b.Tag != "" && b.Tag != b.Language {
			head += " (" + b.Tag + ")"
		}
		line := styles.Bold.Render(head)
		if b.Preview != "" {
			room := width - ui.ANSILen(head) - 2
			if room > 8 {
				line += "  " + styles.Muted.Render(ui.Truncate(b.Preview, room))
			}
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
