package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kalmanmoshe/fencedit/internal/history"
	"github.com/kalmanmoshe/fencedit/internal/ui"
)

// confirmFunc asks before a block is rewritten; tests replace it.
var confirmFunc = ui.Confirm

type applyOptions struct {
	dryRun bool
	yes    bool
}

// applyContent shows the diff, asks for confirmation, then replaces the
// block's content, saves the document and journals the edit.
func (a *app) applyContent(ctx context.Context, w io.Writer, b *block, content string, opts applyOptions) error {
	styles := ui.NewStyles(w)
	if !ui.HasDiff(b.data.Content, content) {
		fmt.Fprintln(w, styles.Muted.Render("no changes"))
		return nil
	}

	if a.cfg.Edit.ShowDiff || opts.dryRun {
		err := ui.WriteUnifiedDiff(w, b.label(), b.data.Content+"\n", content+"\n", ui.DiffOptions{
			Color:       ui.ColorEnabled(w),
			Highlighter: a.highlighter(b.data.Language),
		})
		if err != nil {
			return fmt.Errorf("write diff: %w", err)
		}
	}
	if opts.dryRun {
		return nil
	}

	if a.cfg.Edit.Confirm && !opts.yes {
		ok, err := confirmFunc(fmt.Sprintf("Replace %s block?", b.data.Language), b.label())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, styles.Muted.Render("cancelled"))
			return nil
		}
	}

	before := b.data.Content
	if err := b.ctx.Replace(content); err != nil {
		return err
	}
	if err := b.doc.Save(); err != nil {
		return fmt.Errorf("save %s: %w", b.spec.Path, err)
	}
	b.span, _ = b.ctx.Bounds()
	b.data, _ = b.ctx.Data()

	if a.cfg.History.Enabled {
		a.journal(ctx, &history.Entry{
			Path:     absPath(b.spec.Path),
			Start:    b.span.Start,
			End:      b.span.End,
			Tag:      b.data.Tag,
			Language: b.data.Language,
			Before:   before,
			After:    content,
		})
	}

	fmt.Fprintln(w, styles.FormatResult(true, fmt.Sprintf("replaced %s (%d lines)", b.label(), strings.Count(content, "\n")+1)))
	return nil
}

// journal records e; a failing journal never fails the edit.
func (a *app) journal(ctx context.Context, e *history.Entry) {
	store, err := a.openHistory()
	if err != nil {
		slog.Warn("history unavailable", "error", err)
		return
	}
	defer store.Close()

	if err := store.Record(ctx, e); err != nil {
		slog.Warn("failed to record history", "path", e.Path, "error", err)
	}
}
