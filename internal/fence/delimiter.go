package fence

import "strings"

// MinRun is the shortest run of fence characters that forms a delimiter.
const MinRun = 3

// Delimiter describes the fence run found at the start of a line.
type Delimiter struct {
	Char   byte   // '`' or '~'
	Len    int    // run length, >= MinRun
	Indent int    // leading whitespace bytes before the run
	Info   string // text after the run, trimmed
}

// Bare reports whether nothing but whitespace follows the run.
func (d Delimiter) Bare() bool {
	return d.Info == ""
}

// Closes reports whether d can close a block opened by open.
func (d Delimiter) Closes(open Delimiter) bool {
	return d.Bare() && d.Char == open.Char && d.Len >= open.Len
}

func isFenceChar(c byte) bool {
	return c == '`' || c == '~'
}

// ParseDelimiter reports whether line starts with a fence run. The run must
// use a single character throughout; "`~~" is not a delimiter.
func ParseDelimiter(line string) (Delimiter, bool) {
	indent := 0
	for indent < len(line) && (line[indent] == ' ' || line[indent] == '\t') {
		indent++
	}
	if indent == len(line) || !isFenceChar(line[indent]) {
		return Delimiter{}, false
	}

	c := line[indent]
	end := indent
	for end < len(line) && line[end] == c {
		end++
	}
	run := end - indent
	if run < MinRun {
		return Delimiter{}, false
	}

	return Delimiter{
		Char:   c,
		Len:    run,
		Indent: indent,
		Info:   strings.TrimSpace(line[end:]),
	}, true
}

// Tag returns the first maximal run of word characters ([A-Za-z0-9_]) after
// the fence run of line. "```python" yields "python", "``` {r}" yields "r" and
// a bare fence yields "".
func Tag(line string) string {
	rest := line
	if d, ok := ParseDelimiter(line); ok {
		rest = line[d.Indent+d.Len:]
	}

	start := 0
	for start < len(rest) && !isWordByte(rest[start]) {
		start++
	}
	end := start
	for end < len(rest) && isWordByte(rest[end]) {
		end++
	}
	return rest[start:end]
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}
