package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "monokai"

// Highlighter handles syntax highlighting for block content and diffs
type Highlighter struct {
	lexer chroma.Lexer
	style *chroma.Style
}

// NewHighlighter creates a highlighter for a language name such as "python"
// or a tag such as "py". Returns nil if the language is not recognized.
func NewHighlighter(language, style string) *Highlighter {
	lexer := lexers.Get(language)
	if lexer == nil {
		return nil
	}
	return newHighlighter(lexer, style)
}

func newHighlighter(lexer chroma.Lexer, style string) *Highlighter {
	if style == "" {
		style = DefaultStyle
	}
	s := styles.Get(style)
	if s == nil {
		s = styles.Fallback
	}
	return &Highlighter{
		lexer: chroma.Coalesce(lexer),
		style: s,
	}
}

// Language returns the lexer name, or "" for a nil highlighter.
func (h *Highlighter) Language() string {
	if h == nil {
		return ""
	}
	return h.lexer.Config().Name
}

// Highlight highlights multi-line code line by line, so every line carries
// its own escape codes and can be printed or prefixed independently.
func (h *Highlighter) Highlight(code string) string {
	if h == nil {
		return code
	}
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = h.HighlightLine(line)
	}
	return strings.Join(lines, "\n")
}

// HighlightLine applies syntax highlighting to a line without a background color.
func (h *Highlighter) HighlightLine(line string) string {
	if h == nil {
		return line
	}

	iterator, err := h.lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	var buf strings.Builder
	formatter := &noBgFormatter{style: h.style}
	if err := formatter.Format(&buf, iterator); err != nil {
		return line
	}
	return buf.String()
}

// HighlightLineWithBg applies syntax highlighting to a line with a specific background color.
// bg is an RGB array [r, g, b] for true color background.
func (h *Highlighter) HighlightLineWithBg(line string, bg [3]int) string {
	if h == nil {
		return withBg(line, bg)
	}

	iterator, err := h.lexer.Tokenise(nil, line)
	if err != nil {
		return withBg(line, bg)
	}

	var buf strings.Builder
	formatter := &bgFormatter{bg: bg, style: h.style}
	if err := formatter.Format(&buf, iterator); err != nil {
		return withBg(line, bg)
	}
	return buf.String()
}

func withBg(line string, bg [3]int) string {
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm%s\x1b[0m", bg[0], bg[1], bg[2], line)
}

func tokenCodes(entry chroma.StyleEntry) []string {
	var codes []string
	if entry.Colour.IsSet() {
		codes = append(codes, fmt.Sprintf("38;2;%d;%d;%d", entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue()))
	}
	if entry.Bold == chroma.Yes {
		codes = append(codes, "1")
	}
	if entry.Italic == chroma.Yes {
		codes = append(codes, "3")
	}
	if entry.Underline == chroma.Yes {
		codes = append(codes, "4")
	}
	return codes
}

// noBgFormatter is a Chroma formatter that applies only foreground colors
type noBgFormatter struct {
	style *chroma.Style
}

func (f *noBgFormatter) Format(w io.Writer, iterator chroma.Iterator) error {
	for token := iterator(); token != chroma.EOF; token = iterator() {
		// Lexers may produce trailing newline tokens
		value := strings.TrimRight(token.Value, "\n")
		if value == "" {
			continue
		}

		if codes := tokenCodes(f.style.Get(token.Type)); len(codes) > 0 {
			fmt.Fprintf(w, "\x1b[%sm%s\x1b[0m", strings.Join(codes, ";"), value)
		} else {
			fmt.Fprint(w, value)
		}
	}
	return nil
}

// bgFormatter is a custom Chroma formatter that applies a consistent background color
type bgFormatter struct {
	bg    [3]int // RGB background color
	style *chroma.Style
}

func (f *bgFormatter) Format(w io.Writer, iterator chroma.Iterator) error {
	bg := fmt.Sprintf("48;2;%d;%d;%d", f.bg[0], f.bg[1], f.bg[2])
	for token := iterator(); token != chroma.EOF; token = iterator() {
		value := strings.TrimRight(token.Value, "\n")
		if value == "" {
			continue
		}

		codes := append([]string{bg}, tokenCodes(f.style.Get(token.Type))...)
		fmt.Fprintf(w, "\x1b[%sm%s", strings.Join(codes, ";"), value)
	}

	fmt.Fprint(w, "\x1b[0m")
	return nil
}

// StripANSI removes all ANSI escape codes from a string
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// ANSILen returns the display width of a string, ignoring ANSI codes
func ANSILen(s string) int {
	return ansi.StringWidth(s)
}
