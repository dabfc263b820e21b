// Package document holds a markdown file as a slice of lines and exposes it
// to the fence resolver as a host with a cursor and a section index.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kalmanmoshe/fencedit/internal/fence"
)

var (
	// ErrRange is returned for edits outside the document.
	ErrRange = errors.New("line range out of bounds")
	// ErrNoPath is returned by Save on a document that was never loaded from
	// or saved to a file.
	ErrNoPath = errors.New("document has no path")
)

// Document is a line buffer with an optional cursor. It is not safe for
// concurrent use.
type Document struct {
	path  string
	mode  os.FileMode
	lines []string

	cursor    int
	hasCursor bool

	version uint64
	saved   uint64

	index    IndexMode
	sections []fence.Section
	indexed  uint64
	hasIndex bool
}

// Option configures a Document.
type Option func(*Document)

// WithIndex selects how coarse sections are computed.
func WithIndex(mode IndexMode) Option {
	return func(d *Document) {
		if mode != "" {
			d.index = mode
		}
	}
}

// WithCursor places the cursor on a 0-based line.
func WithCursor(line int) Option {
	return func(d *Document) {
		d.SetCursor(line)
	}
}

// New returns a document holding text. Lines are split on "\n"; a "\r"
// before the newline stays part of the line.
func New(text string, opts ...Option) *Document {
	d := &Document{
		lines: strings.Split(text, "\n"),
		mode:  0o644,
		index: IndexNested,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Load reads a document from path.
func Load(path string, opts ...Option) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	d := New(string(data), opts...)
	d.path = path
	d.mode = info.Mode().Perm()
	return d, nil
}

func (d *Document) Path() string { return d.path }

func (d *Document) Text() string { return strings.Join(d.lines, "\n") }

func (d *Document) Version() uint64 { return d.version }

// Dirty reports whether the document changed since it was loaded or saved.
func (d *Document) Dirty() bool { return d.version != d.saved }

func (d *Document) Index() IndexMode { return d.index }

// SetCursor places the cursor on a 0-based line. Lines outside the document
// are kept as given; the resolver treats them as having no block.
func (d *Document) SetCursor(line int) {
	d.cursor = line
	d.hasCursor = true
}

func (d *Document) ClearCursor() {
	d.hasCursor = false
}

func (d *Document) CursorLine() (int, bool) {
	return d.cursor, d.hasCursor
}

func (d *Document) LineCount() int { return len(d.lines) }

// Line returns line i, or "" when i is out of range.
func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

func (d *Document) FullText() string { return d.Text() }

// ReplaceLines replaces the text between column 0 of line start and column 0
// of line end. A trailing newline in text terminates its last line; without
// one the last fragment is joined to line end.
func (d *Document) ReplaceLines(start, end int, text string) error {
	if start < 0 || end < start || end > len(d.lines) {
		return fmt.Errorf("%w: [%d, %d) of %d lines", ErrRange, start, end, len(d.lines))
	}

	var insert []string
	switch {
	case text == "":
	case strings.HasSuffix(text, "\n"):
		insert = strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	default:
		insert = strings.Split(text, "\n")
		if end < len(d.lines) {
			insert[len(insert)-1] += d.lines[end]
			end++
		}
	}

	next := make([]string, 0, len(d.lines)-(end-start)+len(insert))
	next = append(next, d.lines[:start]...)
	next = append(next, insert...)
	next = append(next, d.lines[end:]...)
	if len(next) == 0 {
		next = []string{""}
	}
	d.lines = next
	d.version++
	return nil
}

// Source returns the document as a fence.Source. With IndexNone the returned
// value does not expose the section index.
func (d *Document) Source() fence.Source {
	if d.index == IndexNone {
		return plainSource{d: d}
	}
	return d
}

// Save writes the document back to the path it was loaded from.
func (d *Document) Save() error {
	if d.path == "" {
		return ErrNoPath
	}
	return d.SaveAs(d.path)
}

// SaveAs writes the document to path through a temp file and rename, and
// makes path the document's path.
func (d *Document) SaveAs(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	mode := d.mode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tf, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tf.Name()

	if _, err := tf.WriteString(d.Text()); err != nil {
		tf.Close()
		os.Remove(tempPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tf.Sync(); err != nil {
		tf.Close()
		os.Remove(tempPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tf.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, mode); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("set file permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	d.path = path
	d.mode = mode
	d.saved = d.version
	return nil
}

type plainSource struct {
	d *Document
}

func (s plainSource) CursorLine() (int, bool) { return s.d.CursorLine() }
func (s plainSource) LineCount() int          { return s.d.LineCount() }
func (s plainSource) Line(i int) string       { return s.d.Line(i) }
func (s plainSource) FullText() string        { return s.d.FullText() }

func (s plainSource) ReplaceLines(start, end int, text string) error {
	return s.d.ReplaceLines(start, end, text)
}
