package fence

import (
	"fmt"
	"log/slog"
	"strings"
)

// Data is the payload of the block a Context resolved to.
type Data struct {
	Content  string `json:"content"`
	Tag      string `json:"tag"`
	Language string `json:"language"`
}

// Option configures a Context.
type Option func(*Context)

// WithTagResolver sets the resolver used to turn tags into languages.
func WithTagResolver(r TagResolver) Option {
	return func(c *Context) {
		c.resolver = r
	}
}

// WithLogger sets the logger used for resolution decisions.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.log = l
		}
	}
}

// Context is the block enclosing the cursor of a Source at the time Create
// was called. It is meant to be created for one edit and then discarded.
//
// An invalid Context is inert: Bounds and Data report false and Replace does
// nothing.
type Context struct {
	src      Source
	resolver TagResolver
	log      *slog.Logger

	span    Span
	valid   bool
	refined bool
}

// Create resolves the innermost block around src's cursor.
//
// The cursor must lie strictly between a block's delimiter lines; a cursor on
// a fence line belongs to the enclosing block, if any.
func Create(src Source, opts ...Option) *Context {
	c := &Context{
		src: src,
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resolve()
	return c
}

func (c *Context) resolve() {
	if c.src == nil {
		return
	}
	line, ok := c.src.CursorLine()
	if !ok {
		c.log.Debug("no cursor")
		return
	}
	if line < 0 || line >= c.src.LineCount() {
		c.log.Debug("cursor out of range", "line", line, "lines", c.src.LineCount())
		return
	}

	coarse, ok := c.coarseSection(line)
	if !ok {
		c.log.Debug("no block section at cursor", "line", line)
		return
	}
	if !coarse.Contains(line) {
		c.log.Debug("cursor on section delimiter", "line", line, "section", coarse.String())
		return
	}

	c.span = coarse
	c.valid = true

	spans := ParseLines(c.lines(coarse.Start, coarse.End+1))
	for i := range spans {
		spans[i] = spans[i].Shift(coarse.Start)
	}
	if inner, found := Innermost(spans, line); found {
		c.span = inner
		c.refined = true
	}
	c.log.Debug("resolved block", "line", line, "span", c.span.String(), "refined", c.refined)
}

func (c *Context) coarseSection(line int) (Span, bool) {
	last := c.src.LineCount() - 1

	if idx, ok := c.src.(SectionIndex); ok {
		sec, found := idx.FindCoarseSection(line)
		if !found || !sec.IsBlock {
			return Span{}, false
		}
		s := Span{Start: max(sec.Start, 0), End: min(sec.End, last)}
		if s.Start >= s.End {
			return Span{}, false
		}
		return s, true
	}

	for _, s := range TopLevel(ParseNestedBlocks(c.src.FullText())) {
		if s.Start <= line && line <= s.End {
			return s, true
		}
	}
	return Span{}, false
}

// lines returns source lines [start, end).
func (c *Context) lines(start, end int) []string {
	out := make([]string, 0, max(end-start, 0))
	for i := start; i < end; i++ {
		out = append(out, c.src.Line(i))
	}
	return out
}

// IsValid reports whether the cursor was inside a block.
func (c *Context) IsValid() bool {
	return c.valid
}

// Refined reports whether the span came from parsing the section rather than
// from the host's coarse section as a fallback.
func (c *Context) Refined() bool {
	return c.valid && c.refined
}

// Bounds returns the resolved block span.
func (c *Context) Bounds() (Span, bool) {
	if !c.valid {
		return Span{}, false
	}
	return c.span, true
}

// Data returns the inner text, tag and language of the resolved block.
func (c *Context) Data() (Data, bool) {
	if !c.valid {
		return Data{}, false
	}

	tag := Tag(c.src.Line(c.span.Start))
	lang := Unrecognized
	if c.resolver != nil {
		lang = c.resolver.Resolve(tag)
	}

	return Data{
		Content:  strings.Join(c.lines(c.span.Start+1, c.span.End), "\n"),
		Tag:      tag,
		Language: lang,
	}, true
}

// Replace overwrites the lines between the block's delimiters with content
// in one edit. The delimiter lines are left untouched.
func (c *Context) Replace(content string) error {
	if !c.valid {
		return nil
	}
	if err := c.src.ReplaceLines(c.span.Start+1, c.span.End, content+"\n"); err != nil {
		return fmt.Errorf("replace block %s: %w", c.span, err)
	}
	c.span.End = c.span.Start + 1 + strings.Count(content, "\n") + 1
	return nil
}
