package fence

// Source is the host document a Context reads from and writes to.
// Line indices are 0-based.
type Source interface {
	// CursorLine returns the cursor's line, or false when there is no cursor.
	CursorLine() (int, bool)
	LineCount() int
	Line(i int) string
	FullText() string
	// ReplaceLines replaces the half-open line range [start, end) at column 0
	// with text in a single edit.
	ReplaceLines(start, end int, text string) error
}

// Section is a coarse, top-level region reported by a host index.
// Start and End are inclusive line indices.
type Section struct {
	Start   int
	End     int
	IsBlock bool // the region is a fenced block
}

// SectionIndex is implemented by sources that keep a precomputed index of
// top-level sections. Without it, Create scans the whole document.
type SectionIndex interface {
	FindCoarseSection(line int) (Section, bool)
}

// Unrecognized is the language reported for empty or unknown tags.
const Unrecognized = "plaintext"

// TagResolver maps a fence tag such as "py" to a canonical language name.
type TagResolver interface {
	Resolve(tag string) string
}

// TagResolverFunc adapts a function to TagResolver.
type TagResolverFunc func(tag string) string

func (f TagResolverFunc) Resolve(tag string) string {
	return f(tag)
}
