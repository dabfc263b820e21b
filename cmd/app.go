package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kalmanmoshe/fencedit/internal/config"
	"github.com/kalmanmoshe/fencedit/internal/document"
	"github.com/kalmanmoshe/fencedit/internal/fence"
	"github.com/kalmanmoshe/fencedit/internal/history"
	"github.com/kalmanmoshe/fencedit/internal/input"
	"github.com/kalmanmoshe/fencedit/internal/language"
	"github.com/kalmanmoshe/fencedit/internal/ui"
)

var errNotInBlock = errors.New("not inside a fenced block")

// app bundles what commands need once flags and config are resolved.
type app struct {
	cfg      *config.Config
	registry *language.Registry
	index    document.IndexMode
	log      *slog.Logger
}

// loadApp reads the config named by --config and applies --index.
func loadApp() (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, indexFlag, slog.Default())
}

func newApp(cfg *config.Config, indexOverride string, log *slog.Logger) (*app, error) {
	mode := cfg.Index
	if indexOverride != "" {
		mode = indexOverride
	}
	index, err := document.ParseIndexMode(mode)
	if err != nil {
		return nil, err
	}

	registry := language.NewRegistry(
		language.WithAliases(cfg.Language.Aliases),
		language.WithDefault(cfg.Language.Default),
	)
	return &app{cfg: cfg, registry: registry, index: index, log: log}, nil
}

// parseTarget parses a path:LINE argument; line, when positive, overrides
// the line in the argument.
func parseTarget(arg string, line int) (input.CursorSpec, error) {
	spec, err := input.ParseCursorSpec(arg)
	if err != nil {
		return spec, err
	}
	if line > 0 {
		return spec.WithLine(line)
	}
	if !spec.HasLine {
		return spec, fmt.Errorf("%s: no line given (use path:LINE or --line)", arg)
	}
	return spec, nil
}

// block is a resolved fenced block in a loaded document.
type block struct {
	spec input.CursorSpec
	doc  *document.Document
	ctx  *fence.Context
	span fence.Span
	data fence.Data
}

// open loads the document named by spec and resolves the block at its line.
func (a *app) open(spec input.CursorSpec) (*block, error) {
	doc, err := document.Load(spec.Path,
		document.WithIndex(a.index),
		document.WithCursor(spec.Index()),
	)
	if err != nil {
		return nil, err
	}

	ctx := fence.Create(doc.Source(),
		fence.WithTagResolver(a.registry),
		fence.WithLogger(a.log),
	)
	span, ok := ctx.Bounds()
	if !ok {
		return nil, fmt.Errorf("%s: %w", spec, errNotInBlock)
	}
	data, _ := ctx.Data()
	return &block{spec: spec, doc: doc, ctx: ctx, span: span, data: data}, nil
}

// label returns path:start-end with 1-based delimiter lines.
func (b *block) label() string {
	return fmt.Sprintf("%s:%d-%d", b.spec.Path, b.span.Start+1, b.span.End+1)
}

func (a *app) highlighter(lang string) *ui.Highlighter {
	if !a.cfg.Display.Highlight {
		return nil
	}
	return ui.NewHighlighter(lang, a.cfg.Display.Style)
}

func (a *app) openHistory() (*history.Store, error) {
	return history.Open(history.Config{Path: a.cfg.History.Path})
}

// absPath returns the journal key for a document path.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// editorCommand returns the editor argv: edit.editor, then $EDITOR, then
// $VISUAL, then vi. Blank values are skipped.
func editorCommand(cfg *config.Config) []string {
	for _, editor := range []string{cfg.Edit.Editor, os.Getenv("EDITOR"), os.Getenv("VISUAL")} {
		if argv := strings.Fields(editor); len(argv) > 0 {
			return argv
		}
	}
	return []string{"vi"}
}

// trimFinalNewline drops one trailing line terminator, which editors and
// pipes add but block content does not carry.
func trimFinalNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
