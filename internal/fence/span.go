package fence

import "fmt"

// Span is an inclusive line range: Start holds the opening fence and End the
// closing fence, or the last line of the text for an unterminated block.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Contains reports whether line lies strictly between the span's delimiter lines.
func (s Span) Contains(line int) bool {
	return s.Start < line && line < s.End
}

// Encloses reports whether o lies within s and is not s itself.
func (s Span) Encloses(o Span) bool {
	return s != o && s.Start <= o.Start && o.End <= s.End
}

// Len is the number of lines between the delimiters plus one.
func (s Span) Len() int {
	return s.End - s.Start
}

// Shift moves the span down by n lines.
func (s Span) Shift(n int) Span {
	return Span{Start: s.Start + n, End: s.End + n}
}

// Innermost returns the smallest span that strictly contains line.
func Innermost(spans []Span, line int) (Span, bool) {
	var best Span
	found := false
	for _, s := range spans {
		if !s.Contains(line) {
			continue
		}
		if !found || s.Len() < best.Len() {
			best = s
			found = true
		}
	}
	return best, found
}

// TopLevel returns the spans not enclosed by any other span. spans must be
// in the order ParseNestedBlocks returns them.
func TopLevel(spans []Span) []Span {
	out := []Span{}
	last := -1
	for _, s := range spans {
		if s.Start > last {
			out = append(out, s)
			last = s.End
		}
	}
	return out
}

// Depths returns, for each span, how many other spans enclose it.
func Depths(spans []Span) []int {
	depths := make([]int, len(spans))
	for i, s := range spans {
		for j, o := range spans {
			if i != j && o.Encloses(s) {
				depths[i]++
			}
		}
	}
	return depths
}
