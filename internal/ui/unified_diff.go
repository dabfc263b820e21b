package ui

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	diff "github.com/shogoki/gotextdiff"
)

var (
	diffAddBg    = [3]int{30, 60, 30} // dark green tint
	diffRemoveBg = [3]int{60, 30, 30} // dark red tint
)

var hunkRe = regexp.MustCompile(`^@@ -(\d+)(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// DiffOptions controls WriteUnifiedDiff.
type DiffOptions struct {
	// Color renders line numbers and add/remove backgrounds. Without it the
	// plain unified diff is written.
	Color bool
	// Highlighter, when set, syntax-highlights colored diff lines.
	Highlighter *Highlighter
}

// WriteUnifiedDiff writes a unified diff between old and new content to w.
// Nothing is written when the contents are equal.
func WriteUnifiedDiff(w io.Writer, name, oldContent, newContent string, opts DiffOptions) error {
	if oldContent == newContent {
		return nil
	}

	diffBytes := diff.Diff(name, []byte(oldContent), name, []byte(newContent))
	if len(diffBytes) == 0 {
		return nil
	}
	diffText := string(diffBytes)

	if !opts.Color {
		for _, line := range strings.SplitAfter(diffText, "\n") {
			if line == "" || strings.HasPrefix(line, "diff ") {
				continue
			}
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
		}
		if !strings.HasSuffix(diffText, "\n") {
			_, err := io.WriteString(w, "\n")
			return err
		}
		return nil
	}

	return writeColoredDiff(w, diffText, oldContent, newContent, opts.Highlighter)
}

func writeColoredDiff(w io.Writer, diffText, oldContent, newContent string, highlighter *Highlighter) error {
	// Line number width based on content sizes
	maxLine := max(strings.Count(oldContent, "\n"), strings.Count(newContent, "\n")) + 1
	lineNumWidth := max(len(strconv.Itoa(maxLine)), 3)

	var newLineNum int
	var deletionOffset int // position within a deletion block
	hunkCount := 0

	var out strings.Builder
	for _, line := range strings.Split(diffText, "\n") {
		if strings.HasPrefix(line, "diff ") ||
			strings.HasPrefix(line, "--- ") ||
			strings.HasPrefix(line, "+++ ") {
			continue
		}
		if len(line) == 0 {
			continue
		}

		prefix := line[0]
		content := line[1:]

		switch prefix {
		case '@':
			if matches := hunkRe.FindStringSubmatch(line); matches != nil {
				newLineNum, _ = strconv.Atoi(matches[2])
			}
			// "..." separates hunks
			if hunkCount > 0 {
				fmt.Fprintf(&out, "\x1b[38;2;100;100;100m%s\x1b[0m\n", strings.Repeat(" ", lineNumWidth)+"  ...")
			}
			hunkCount++

		case '-':
			// Removed lines sit at their virtual position in the new content
			highlighted := highlighter.HighlightLineWithBg(content, diffRemoveBg)
			fmt.Fprintf(&out, "\x1b[38;2;160;80;80m%*d- \x1b[0m%s\n", lineNumWidth, newLineNum+deletionOffset, highlighted)
			deletionOffset++

		case '+':
			deletionOffset = 0
			highlighted := highlighter.HighlightLineWithBg(content, diffAddBg)
			fmt.Fprintf(&out, "\x1b[38;2;80;160;80m%*d+ \x1b[0m%s\n", lineNumWidth, newLineNum, highlighted)
			newLineNum++

		case ' ':
			deletionOffset = 0
			highlighted := highlighter.HighlightLine(content)
			fmt.Fprintf(&out, "\x1b[38;2;100;100;100m%*d  \x1b[0m%s\n", lineNumWidth, newLineNum, highlighted)
			newLineNum++

		default:
			out.WriteString(line)
			out.WriteByte('\n')
		}
	}

	_, err := io.WriteString(w, out.String())
	return err
}

// HasDiff returns true if old and new content are different
func HasDiff(oldContent, newContent string) bool {
	return oldContent != newContent
}
