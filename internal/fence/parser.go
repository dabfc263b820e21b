package fence

import "strings"

// ParseNestedBlocks returns every fenced block in text as line spans relative
// to the first line of text. Each block is followed by the blocks nested in
// it and then by the blocks after it, so the result is ordered by Start.
//
// Any two returned spans are either disjoint or one encloses the other.
// Every line is parsed as a delimiter once. Close searches are cached per
// block body, so scanning a body of m lines costs at most O(m²) delimiter
// comparisons; ordinary documents are linear. A body nested d levels deep is
// rescanned once per level, bounding adversarial input at O(d·n²).
func ParseNestedBlocks(text string) []Span {
	return parseLines(strings.Split(text, "\n"))
}

// ParseLines is ParseNestedBlocks over text that is already split into lines.
func ParseLines(lines []string) []Span {
	return parseLines(lines)
}

type delimLine struct {
	Delimiter
	ok bool
}

func parseLines(lines []string) []Span {
	delims := make([]delimLine, len(lines))
	for i, line := range lines {
		d, ok := ParseDelimiter(line)
		delims[i] = delimLine{Delimiter: d, ok: ok}
	}
	return parseRange(delims, 0, len(lines))
}

// closeKey identifies a close search: where it starts and the run it closes.
type closeKey struct {
	from int
	char byte
	run  int
}

// scanner searches for closing fences in lines [lo, hi) of a parsed text.
type scanner struct {
	delims []delimLine
	hi     int
	closes map[closeKey]int
}

// parseRange returns the spans in lines [lo, hi) as if those lines were the
// whole text, with absolute line indices.
func parseRange(delims []delimLine, lo, hi int) []Span {
	s := &scanner{delims: delims, hi: hi}
	spans := []Span{}
	for i := lo; i < hi; i++ {
		if !delims[i].ok {
			continue
		}
		// An opener on the last line has no body.
		if i == hi-1 {
			break
		}

		j := s.findClose(i+1, delims[i].Delimiter)
		if j < 0 {
			j = hi - 1
		}

		spans = append(spans, Span{Start: i, End: j})
		spans = append(spans, parseRange(delims, i+1, j)...)
		i = j
	}
	return spans
}

// findClose returns the index of the line closing open, searching from line
// from, or -1. A longer run of the same character that is itself closed
// further down opens a nested block, and the search resumes after it.
func (s *scanner) findClose(from int, open Delimiter) int {
	key := closeKey{from: from, char: open.Char, run: open.Len}
	if j, ok := s.closes[key]; ok {
		return j
	}

	j := -1
	for k := from; k < s.hi; k++ {
		d := s.delims[k]
		if !d.ok || d.Char != open.Char || d.Len < open.Len {
			continue
		}
		if d.Len > open.Len {
			if m := s.findClose(k+1, d.Delimiter); m >= 0 {
				k = m
				continue
			}
		}
		if d.Closes(open) {
			j = k
			break
		}
	}

	if s.closes == nil {
		s.closes = make(map[closeKey]int)
	}
	s.closes[key] = j
	return j
}
