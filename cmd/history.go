package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalmanmoshe/fencedit/internal/document"
	"github.com/kalmanmoshe/fencedit/internal/fence"
	"github.com/kalmanmoshe/fencedit/internal/history"
	"github.com/kalmanmoshe/fencedit/internal/ui"
)

var (
	historyLimit int
	historyJSON  bool
	undoID       int64
)

var historyCmd = &cobra.Command{
	Use:   "history [path]",
	Short: "List journaled block replacements",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		path := ""
		if len(args) == 1 {
			path = absPath(args[0])
		}
		return a.runHistory(cmd.Context(), cmd.OutOrStdout(), path, historyLimit, historyJSON)
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo <path>",
	Short: "Revert the last journaled replacement in a file",
	Long: `Revert the newest journaled replacement in a file, or the one given
with --id. The block must still hold the content written by that edit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return a.runUndo(cmd.Context(), cmd.OutOrStdout(), args[0], undoID)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(undoCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output JSON")
	undoCmd.Flags().Int64Var(&undoID, "id", 0, "Revert this entry instead of the newest")
}

func (a *app) runHistory(ctx context.Context, w io.Writer, path string, limit int, asJSON bool) error {
	store, err := a.openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(ctx, history.ListOptions{Path: path, Limit: limit})
	if err != nil {
		return err
	}

	if asJSON {
		if entries == nil {
			entries = []history.Entry{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	styles := ui.NewStyles(w)
	if len(entries) == 0 {
		fmt.Fprintln(w, styles.Muted.Render("no history"))
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s  %s:%d-%d  %s  %s\n",
			styles.Bold.Render(fmt.Sprintf("#%d", e.ID)),
			styles.Muted.Render(e.CreatedAt.Local().Format("2006-01-02 15:04")),
			e.Path, e.Start+1, e.End+1,
			e.Language,
			styles.Muted.Render(fmt.Sprintf("%d -> %d lines", lineCount(e.Before), lineCount(e.After))),
		)
	}
	return nil
}

func (a *app) runUndo(ctx context.Context, w io.Writer, path string, id int64) error {
	store, err := a.openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	key := absPath(path)
	var entry *history.Entry
	if id > 0 {
		entry, err = store.Get(ctx, id)
		if err == nil && entry.Path != key {
			return fmt.Errorf("history entry #%d belongs to %s", id, entry.Path)
		}
	} else {
		entry, err = store.Last(ctx, key)
	}
	if errors.Is(err, history.ErrNotFound) {
		return fmt.Errorf("nothing to undo for %s", path)
	}
	if err != nil {
		return err
	}

	doc, err := document.Load(path, document.WithIndex(a.index), document.WithCursor(entry.Start+1))
	if err != nil {
		return err
	}
	fctx := fence.Create(doc.Source(), fence.WithTagResolver(a.registry), fence.WithLogger(a.log))
	span, ok := fctx.Bounds()
	data, _ := fctx.Data()
	if !ok || span.Start != entry.Start || data.Content != entry.After {
		return fmt.Errorf("%s:%d: block changed since edit #%d, not undoing", path, entry.Start+1, entry.ID)
	}

	if err := fctx.Replace(entry.Before); err != nil {
		return err
	}
	if err := doc.Save(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := store.Delete(ctx, entry.ID); err != nil {
		return err
	}

	span, _ = fctx.Bounds()
	fmt.Fprintln(w, ui.NewStyles(w).FormatResult(true, fmt.Sprintf("reverted #%d in %s:%d-%d", entry.ID, path, span.Start+1, span.End+1)))
	return nil
}

func lineCount(s string) int {
	return strings.Count(s, "\n") + 1
}
