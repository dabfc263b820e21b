package input

import (
	"fmt"
	"regexp"
	"strconv"
)

// CursorSpec is a file with an optional cursor line.
type CursorSpec struct {
	Path    string
	Line    int  // 1-indexed, 0 when no line was given
	HasLine bool // true if a line was specified
}

var cursorSpecRe = regexp.MustCompile(`^(.+?)(?::(\d+))?$`)

// ParseCursorSpec parses a cursor specification like "notes.md:12".
// Supported formats:
//   - notes.md    - No cursor
//   - notes.md:12 - Cursor on line 12
func ParseCursorSpec(spec string) (CursorSpec, error) {
	matches := cursorSpecRe.FindStringSubmatch(spec)
	if matches == nil {
		return CursorSpec{}, fmt.Errorf("invalid cursor spec: %q", spec)
	}

	cs := CursorSpec{Path: matches[1]}
	if matches[2] != "" {
		line, err := strconv.Atoi(matches[2])
		if err != nil || line < 1 {
			return CursorSpec{}, fmt.Errorf("invalid line: %s", matches[2])
		}
		cs.Line = line
		cs.HasLine = true
	}
	return cs, nil
}

// WithLine returns cs with the cursor on a 1-indexed line.
func (cs CursorSpec) WithLine(line int) (CursorSpec, error) {
	if line < 1 {
		return cs, fmt.Errorf("invalid line: %d", line)
	}
	cs.Line = line
	cs.HasLine = true
	return cs, nil
}

// Index returns the 0-indexed cursor line.
func (cs CursorSpec) Index() int {
	return cs.Line - 1
}

// String returns the spec in path:line form.
func (cs CursorSpec) String() string {
	if !cs.HasLine {
		return cs.Path
	}
	return fmt.Sprintf("%s:%d", cs.Path, cs.Line)
}
