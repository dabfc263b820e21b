package fence

import (
	"errors"
	"strings"
	"testing"
)

// memSource is a minimal Source over a line slice.
type memSource struct {
	lines     []string
	cursor    int
	hasCursor bool
	edits     int
	err       error
}

func newMemSource(text string, cursor int) *memSource {
	return &memSource{lines: strings.Split(text, "\n"), cursor: cursor, hasCursor: true}
}

func (m *memSource) CursorLine() (int, bool) { return m.cursor, m.hasCursor }
func (m *memSource) LineCount() int          { return len(m.lines) }
func (m *memSource) Line(i int) string       { return m.lines[i] }
func (m *memSource) FullText() string        { return strings.Join(m.lines, "\n") }

func (m *memSource) ReplaceLines(start, end int, text string) error {
	if m.err != nil {
		return m.err
	}
	m.edits++
	insert := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if text == "" {
		insert = nil
	}
	next := append([]string{}, m.lines[:start]...)
	next = append(next, insert...)
	m.lines = append(next, m.lines[end:]...)
	return nil
}

// indexedSource adds a fixed coarse section index.
type indexedSource struct {
	*memSource
	sections []Section
}

func (s *indexedSource) FindCoarseSection(line int) (Section, bool) {
	for _, sec := range s.sections {
		if sec.Start <= line && line <= sec.End {
			return sec, true
		}
	}
	return Section{}, false
}

var testResolver = TagResolverFunc(func(tag string) string {
	switch strings.ToLower(tag) {
	case "py", "python":
		return "python"
	case "go":
		return "go"
	}
	return Unrecognized
})

func TestCreate(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		cursor      int
		wantValid   bool
		wantSpan    Span
		wantContent string
		wantTag     string
		wantLang    string
	}{
		{
			name:        "simple block",
			text:        "```\nfoo\n```",
			cursor:      1,
			wantValid:   true,
			wantSpan:    Span{0, 2},
			wantContent: "foo",
			wantLang:    Unrecognized,
		},
		{
			name:        "innermost nested block",
			text:        "```outer\n````\ninner\n````\n```",
			cursor:      2,
			wantValid:   true,
			wantSpan:    Span{1, 3},
			wantContent: "inner",
			wantLang:    Unrecognized,
		},
		{
			name:        "unterminated block",
			text:        "```\na\nb\nc\nd",
			cursor:      3,
			wantValid:   true,
			wantSpan:    Span{0, 4},
			wantContent: "a\nb\nc",
			wantLang:    Unrecognized,
		},
		{
			name:   "outside any block",
			text:   "text\n```\nx\n```\nafter",
			cursor: 4,
		},
		{
			name:        "tag resolved",
			text:        "```py\nprint(1)\n```",
			cursor:      1,
			wantValid:   true,
			wantSpan:    Span{0, 2},
			wantContent: "print(1)",
			wantTag:     "py",
			wantLang:    "python",
		},
		{
			name:        "three levels picks smallest",
			text:        "`````\n````\n```go\nx\n```\n````\n`````",
			cursor:      3,
			wantValid:   true,
			wantSpan:    Span{2, 4},
			wantContent: "x",
			wantTag:     "go",
			wantLang:    "go",
		},
		{
			name:        "cursor on nested fence belongs to parent",
			text:        "`````\n````\n```go\nx\n```\n````\n`````",
			cursor:      2,
			wantValid:   true,
			wantSpan:    Span{1, 5},
			wantContent: "```go\nx\n```",
			wantLang:    Unrecognized,
		},
		{
			name:   "cursor on opening fence",
			text:   "```\nfoo\n```",
			cursor: 0,
		},
		{
			name:   "cursor on closing fence",
			text:   "```\nfoo\n```",
			cursor: 2,
		},
		{
			name:   "cursor past end",
			text:   "```\nfoo\n```",
			cursor: 9,
		},
		{
			name:   "empty document",
			text:   "",
			cursor: 0,
		},
		{
			name:        "second sibling",
			text:        "```\na\n```\n\n~~~sh\nls\n~~~",
			cursor:      5,
			wantValid:   true,
			wantSpan:    Span{4, 6},
			wantContent: "ls",
			wantTag:     "sh",
			wantLang:    Unrecognized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := Create(newMemSource(tt.text, tt.cursor), WithTagResolver(testResolver))
			if ctx.IsValid() != tt.wantValid {
				t.Fatalf("IsValid()=%v, want %v", ctx.IsValid(), tt.wantValid)
			}

			span, ok := ctx.Bounds()
			data, dataOK := ctx.Data()
			if !tt.wantValid {
				if ok || dataOK {
					t.Fatalf("invalid context returned bounds=%v data=%+v", ok, dataOK)
				}
				if data != (Data{}) {
					t.Fatalf("invalid context returned data %+v", data)
				}
				return
			}

			if !ok || span != tt.wantSpan {
				t.Fatalf("Bounds()=%v,%v, want %v", span, ok, tt.wantSpan)
			}
			if !dataOK {
				t.Fatal("Data() returned false for valid context")
			}
			if data.Content != tt.wantContent {
				t.Fatalf("content=%q, want %q", data.Content, tt.wantContent)
			}
			if data.Tag != tt.wantTag {
				t.Fatalf("tag=%q, want %q", data.Tag, tt.wantTag)
			}
			if data.Language != tt.wantLang {
				t.Fatalf("language=%q, want %q", data.Language, tt.wantLang)
			}
		})
	}
}

func TestCreateWithoutCursor(t *testing.T) {
	src := newMemSource("```\nfoo\n```", 1)
	src.hasCursor = false
	if ctx := Create(src); ctx.IsValid() {
		t.Fatal("expected invalid context without a cursor")
	}
	if ctx := Create(nil); ctx.IsValid() {
		t.Fatal("expected invalid context without a source")
	}
}

func TestCreateWithoutResolverUsesSentinel(t *testing.T) {
	ctx := Create(newMemSource("```python\nx\n```", 1))
	data, ok := ctx.Data()
	if !ok {
		t.Fatal("expected valid context")
	}
	if data.Tag != "python" || data.Language != Unrecognized {
		t.Fatalf("data=%+v, want tag python and language %q", data, Unrecognized)
	}
}

func TestCreateWithSectionIndex(t *testing.T) {
	text := "```outer\n````\ninner\n````\n```"

	t.Run("refines inside section", func(t *testing.T) {
		src := &indexedSource{memSource: newMemSource(text, 2), sections: []Section{{Start: 0, End: 4, IsBlock: true}}}
		ctx := Create(src)
		span, ok := ctx.Bounds()
		if !ok || span != (Span{1, 3}) {
			t.Fatalf("Bounds()=%v,%v, want 1-3", span, ok)
		}
		if !ctx.Refined() {
			t.Fatal("expected refined span")
		}
	})

	t.Run("no section is invalid", func(t *testing.T) {
		src := &indexedSource{memSource: newMemSource(text, 2)}
		if Create(src).IsValid() {
			t.Fatal("expected invalid context when the index has no section")
		}
	})

	t.Run("non-block section is invalid", func(t *testing.T) {
		src := &indexedSource{memSource: newMemSource(text, 2), sections: []Section{{Start: 0, End: 4}}}
		if Create(src).IsValid() {
			t.Fatal("expected invalid context for a non-block section")
		}
	})

	t.Run("falls back to coarse section", func(t *testing.T) {
		src := &indexedSource{
			memSource: newMemSource("intro\na\nb\nend", 1),
			sections:  []Section{{Start: 0, End: 3, IsBlock: true}},
		}
		ctx := Create(src)
		span, ok := ctx.Bounds()
		if !ok || span != (Span{0, 3}) {
			t.Fatalf("Bounds()=%v,%v, want 0-3", span, ok)
		}
		if ctx.Refined() {
			t.Fatal("expected coarse fallback, got refined span")
		}
		data, _ := ctx.Data()
		if data.Content != "a\nb" {
			t.Fatalf("content=%q, want %q", data.Content, "a\nb")
		}
	})

	t.Run("section clamped to document", func(t *testing.T) {
		src := &indexedSource{
			memSource: newMemSource("```\nfoo\n```", 1),
			sections:  []Section{{Start: -2, End: 10, IsBlock: true}},
		}
		span, ok := Create(src).Bounds()
		if !ok || span != (Span{0, 2}) {
			t.Fatalf("Bounds()=%v,%v, want 0-2", span, ok)
		}
	})

	t.Run("cursor on section fence", func(t *testing.T) {
		src := &indexedSource{memSource: newMemSource(text, 0), sections: []Section{{Start: 0, End: 4, IsBlock: true}}}
		if Create(src).IsValid() {
			t.Fatal("expected invalid context on the section's opening fence")
		}
	})
}

func TestReplace(t *testing.T) {
	src := newMemSource("intro\n```go\na\nb\n```\nafter", 2)
	ctx := Create(src)
	if err := ctx.Replace("x := 1"); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if src.edits != 1 {
		t.Fatalf("edits=%d, want 1", src.edits)
	}
	want := "intro\n```go\nx := 1\n```\nafter"
	if got := src.FullText(); got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	span, _ := ctx.Bounds()
	if span != (Span{1, 3}) {
		t.Fatalf("Bounds() after replace = %v, want 1-3", span)
	}
	data, _ := ctx.Data()
	if data.Content != "x := 1" {
		t.Fatalf("content after replace = %q", data.Content)
	}
}

func TestReplaceGrowsBlock(t *testing.T) {
	src := newMemSource("```\na\n```", 1)
	ctx := Create(src)
	if err := ctx.Replace("a\nb\nc"); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if got, want := src.FullText(), "```\na\nb\nc\n```"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if span, _ := ctx.Bounds(); span != (Span{0, 4}) {
		t.Fatalf("Bounds()=%v, want 0-4", span)
	}
}

func TestReplaceRoundTrip(t *testing.T) {
	texts := []struct {
		text   string
		cursor int
	}{
		{"```\nfoo\n```", 1},
		{"```outer\n````\ninner\n````\n```", 2},
		{"```\na\nb\nc\nd", 3},
		{"```\n\n```", 1},
		{"~~~~\n~~~\nx\n~~~\n\ny\n~~~~", 5},
	}
	for _, tt := range texts {
		src := newMemSource(tt.text, tt.cursor)
		ctx := Create(src)
		span, _ := ctx.Bounds()
		data, ok := ctx.Data()
		if !ok {
			t.Fatalf("%q: expected valid context", tt.text)
		}
		if err := ctx.Replace(data.Content); err != nil {
			t.Fatalf("%q: Replace() error = %v", tt.text, err)
		}

		again := Create(src)
		span2, _ := again.Bounds()
		data2, _ := again.Data()
		if span2 != span || data2 != data {
			t.Fatalf("%q: round trip changed block: %v %+v -> %v %+v", tt.text, span, data, span2, data2)
		}
		if src.FullText() != tt.text {
			t.Fatalf("%q: round trip changed text to %q", tt.text, src.FullText())
		}
	}
}

func TestReplaceInvalidIsNoop(t *testing.T) {
	src := newMemSource("plain\ntext", 1)
	ctx := Create(src)
	if err := ctx.Replace("anything"); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if src.edits != 0 {
		t.Fatalf("edits=%d, want 0", src.edits)
	}
}

func TestReplaceError(t *testing.T) {
	boom := errors.New("read-only")
	src := newMemSource("```\nfoo\n```", 1)
	ctx := Create(src)
	src.err = boom
	err := ctx.Replace("bar")
	if !errors.Is(err, boom) {
		t.Fatalf("Replace() error = %v, want %v", err, boom)
	}
	if span, _ := ctx.Bounds(); span != (Span{0, 2}) {
		t.Fatalf("failed replace moved bounds to %v", span)
	}
}
