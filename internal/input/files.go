package input

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/term"
)

// MarkdownPattern selects the files listed when a directory is given.
const MarkdownPattern = "**/*.md"

// ExpandPaths expands the given paths into a sorted list of files.
//   - Glob patterns (e.g., "notes/**/*.md"): expand to all matching files
//   - Directories: expand to every markdown file beneath them
//   - Regular paths: kept as-is, even when missing, so callers report the error
func ExpandPaths(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}

	for _, path := range paths {
		expandedPath := expandPath(path)

		if !containsGlobChars(path) {
			info, err := os.Stat(expandedPath)
			if err != nil || !info.IsDir() {
				add(expandedPath)
				continue
			}
			expandedPath = filepath.Join(expandedPath, filepath.FromSlash(MarkdownPattern))
		}

		if !doublestar.ValidatePattern(filepath.ToSlash(expandedPath)) {
			return nil, fmt.Errorf("invalid glob pattern %q", path)
		}
		matches, err := doublestar.FilepathGlob(expandedPath, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", path, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}

	return result, nil
}

// HasStdin returns true if stdin has data available (not a TTY)
func HasStdin() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	// Check if stdin is a pipe or has data
	return (fi.Mode()&os.ModeCharDevice) == 0 || fi.Size() > 0
}

// ReadStdin reads all content from stdin
// Returns empty string if stdin is a TTY or has no data
func ReadStdin() (string, error) {
	if !HasStdin() {
		return "", nil
	}

	// Check if stdin is a terminal
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "", nil
	}

	return ReadAll(os.Stdin)
}

// ReadAll reads r to the end.
func ReadAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// containsGlobChars returns true if the path contains glob metacharacters
func containsGlobChars(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
