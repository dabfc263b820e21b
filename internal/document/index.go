package document

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/kalmanmoshe/fencedit/internal/fence"
)

// IndexMode selects how a Document computes its coarse sections.
type IndexMode string

const (
	// IndexNested reports the top-level spans of the nesting-aware parser.
	IndexNested IndexMode = "nested"
	// IndexCommonMark reports fenced code blocks as a CommonMark parser sees
	// them. Fences inside an open block are content, not nested blocks.
	IndexCommonMark IndexMode = "commonmark"
	// IndexNone offers no index; the resolver scans the document instead.
	IndexNone IndexMode = "none"
)

// ParseIndexMode parses a mode name. The empty string selects IndexNested.
func ParseIndexMode(s string) (IndexMode, error) {
	switch m := IndexMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return IndexNested, nil
	case IndexNested, IndexCommonMark, IndexNone:
		return m, nil
	}
	return "", fmt.Errorf("unknown index mode %q (want nested, commonmark or none)", s)
}

// Sections returns the document's coarse sections in line order. Sections
// include their delimiter lines. The result is cached per version.
func (d *Document) Sections() []fence.Section {
	if d.hasIndex && d.indexed == d.version {
		return d.sections
	}

	switch d.index {
	case IndexCommonMark:
		d.sections = commonMarkSections(d.lines)
	case IndexNone:
		d.sections = nil
	default:
		d.sections = nestedSections(d.lines)
	}
	d.indexed = d.version
	d.hasIndex = true
	return d.sections
}

// FindCoarseSection returns the section containing line, delimiters included.
func (d *Document) FindCoarseSection(line int) (fence.Section, bool) {
	sections := d.Sections()
	i := sort.Search(len(sections), func(i int) bool { return sections[i].End >= line })
	if i < len(sections) && sections[i].Start <= line {
		return sections[i], true
	}
	return fence.Section{}, false
}

func nestedSections(lines []string) []fence.Section {
	top := fence.TopLevel(fence.ParseLines(lines))
	out := make([]fence.Section, 0, len(top))
	for _, s := range top {
		out = append(out, fence.Section{Start: s.Start, End: s.End, IsBlock: true})
	}
	return out
}

func commonMarkSections(lines []string) []fence.Section {
	src := []byte(strings.Join(lines, "\n"))
	starts := lineStarts(lines)
	lineOf := func(off int) int {
		return sort.Search(len(starts), func(i int) bool { return starts[i] > off }) - 1
	}

	root := goldmark.New().Parser().Parse(text.NewReader(src))

	var out []fence.Section
	next := 0
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		open := openingLine(block, lines, lineOf, next)
		if open < 0 {
			return ast.WalkSkipChildren, nil
		}
		delim, _ := fence.ParseDelimiter(lines[open])

		last := len(lines) - 1
		closeLine := last
		candidate := open + 1
		if n := block.Lines().Len(); n > 0 {
			candidate = lineOf(block.Lines().At(n-1).Start) + 1
		}
		if candidate <= last {
			if d, ok := fence.ParseDelimiter(lines[candidate]); ok && d.Closes(delim) {
				closeLine = candidate
			}
		}

		if open < closeLine {
			out = append(out, fence.Section{Start: open, End: closeLine, IsBlock: true})
		}
		next = closeLine + 1
		return ast.WalkSkipChildren, nil
	})
	return out
}

// openingLine finds the delimiter line that opened block, or -1 when it
// cannot be confirmed.
func openingLine(block *ast.FencedCodeBlock, lines []string, lineOf func(int) int, from int) int {
	guess := -1
	switch {
	case block.Info != nil:
		guess = lineOf(block.Info.Segment.Start)
	case block.Lines().Len() > 0:
		guess = lineOf(block.Lines().At(0).Start) - 1
	default:
		return emptyOpeningLine(block, lines, lineOf, from)
	}
	if guess >= from && guess < len(lines) {
		if _, ok := fence.ParseDelimiter(lines[guess]); ok {
			return guess
		}
	}
	return -1
}

// emptyOpeningLine locates an empty block without an info string, which
// carries no offsets. Only top-level blocks are searched, between the
// neighboring siblings, and the line after the opener must close it.
func emptyOpeningLine(block *ast.FencedCodeBlock, lines []string, lineOf func(int) int, from int) int {
	if _, ok := block.Parent().(*ast.Document); !ok {
		return -1
	}

	start := max(from, 0)
	if prev := block.PreviousSibling(); prev != nil && prev.Type() == ast.TypeBlock && prev.Lines().Len() > 0 {
		start = max(start, lineOf(prev.Lines().At(prev.Lines().Len()-1).Start)+1)
	}
	limit := len(lines) - 1
	for sib := block.NextSibling(); sib != nil; sib = sib.NextSibling() {
		if line, ok := firstLine(sib, lineOf); ok {
			limit = min(limit, line-1)
			break
		}
	}

	for i := start; i < limit; i++ {
		open, ok := fence.ParseDelimiter(lines[i])
		if !ok {
			continue
		}
		if d, ok := fence.ParseDelimiter(lines[i+1]); ok && d.Closes(open) {
			return i
		}
		return -1
	}
	return -1
}

// firstLine returns the first source line of a block node when goldmark
// recorded one.
func firstLine(n ast.Node, lineOf func(int) int) (int, bool) {
	if code, ok := n.(*ast.FencedCodeBlock); ok {
		switch {
		case code.Info != nil:
			return lineOf(code.Info.Segment.Start), true
		case code.Lines().Len() > 0:
			return lineOf(code.Lines().At(0).Start) - 1, true
		}
		return 0, false
	}
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		return lineOf(n.Lines().At(0).Start), true
	}
	return 0, false
}

func lineStarts(lines []string) []int {
	starts := make([]int, len(lines))
	off := 0
	for i, l := range lines {
		starts[i] = off
		off += len(l) + 1
	}
	return starts
}
