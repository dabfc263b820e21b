package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// DefaultGlamourStyle is the glamour style used when none is configured.
const DefaultGlamourStyle = "dark"

type rendererKey struct {
	style string
	width int
}

// rendererCache caches glamour renderers by style and width.
var rendererCache sync.Map // map[rendererKey]*glamour.TermRenderer

// getRenderer returns a cached renderer, creating one if needed.
func getRenderer(style string, width int) (*glamour.TermRenderer, error) {
	if style == "" {
		style = DefaultGlamourStyle
	}
	key := rendererKey{style: style, width: width}
	if cached, ok := rendererCache.Load(key); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}

	rendererCache.Store(key, renderer)
	return renderer, nil
}

// RenderMarkdown renders markdown content with glamour.
// On error, returns the original content unchanged.
func RenderMarkdown(content, style string, width int) string {
	if content == "" {
		return ""
	}
	rendered, err := RenderMarkdownWithError(content, style, width)
	if err != nil {
		return content
	}
	return rendered
}

// RenderMarkdownWithError renders markdown content and returns any errors.
func RenderMarkdownWithError(content, style string, width int) (string, error) {
	renderer, err := getRenderer(style, width)
	if err != nil {
		return "", err
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(rendered), nil
}

// RenderBlock renders content as a fenced code block tagged with lang.
// Markdown content is rendered as markdown rather than as code.
func RenderBlock(lang, content, style string, width int) (string, error) {
	if lang == "markdown" {
		return RenderMarkdownWithError(content, style, width)
	}
	return RenderMarkdownWithError(Fence(lang, content), style, width)
}

// Fence wraps content in a backtick fence longer than any backtick run it
// contains.
func Fence(lang, content string) string {
	n := max(longestRun(content, '`')+1, 3)
	fence := strings.Repeat("`", n)
	return fmt.Sprintf("%s%s\n%s\n%s", fence, lang, strings.TrimSuffix(content, "\n"), fence)
}

func longestRun(s string, c byte) int {
	best, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			cur++
			best = max(best, cur)
		} else {
			cur = 0
		}
	}
	return best
}
