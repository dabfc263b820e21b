package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kalmanmoshe/fencedit/internal/history"
)

const replacedDoc = "# Notes\n" +
	"\n" +
	"````markdown\n" +
	"intro\n" +
	"```python\n" +
	"print(\"bye\")\n" +
	"print(2)\n" +
	"```\n" +
	"outro\n" +
	"````\n" +
	"\n" +
	"```go\n" +
	"x := 1\n" +
	"```\n"

func stubConfirm(t *testing.T, answer bool, err error) *int {
	t.Helper()
	calls := 0
	prev := confirmFunc
	confirmFunc = func(title, description string) (bool, error) {
		calls++
		return answer, err
	}
	t.Cleanup(func() { confirmFunc = prev })
	return &calls
}

func TestRunReplaceAndUndo(t *testing.T) {
	path := writeNotes(t, notesDoc)
	a := newTestApp(t, nil)
	ctx := context.Background()

	var buf bytes.Buffer
	err := a.runReplace(ctx, &buf, cursorAt(path, 6), "print(\"bye\")\nprint(2)", applyOptions{})
	if err != nil {
		t.Fatalf("runReplace: %v", err)
	}
	if got := readFile(t, path); got != replacedDoc {
		t.Fatalf("file after replace:\n%s\nwant:\n%s", got, replacedDoc)
	}
	if !strings.Contains(buf.String(), "replaced "+path+":5-8 (2 lines)") {
		t.Fatalf("output=%q", buf.String())
	}

	store, err := history.Open(history.Config{Path: a.cfg.History.Path})
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	last, err := store.Last(ctx, path)
	store.Close()
	if err != nil {
		t.Fatalf("history Last: %v", err)
	}
	if last.Start != 4 || last.End != 7 || last.Language != "python" {
		t.Fatalf("entry=%+v", last)
	}
	if last.Before != `print("hi")` || last.After != "print(\"bye\")\nprint(2)" {
		t.Fatalf("entry before=%q after=%q", last.Before, last.After)
	}

	buf.Reset()
	if err := a.runUndo(ctx, &buf, path, 0); err != nil {
		t.Fatalf("runUndo: %v", err)
	}
	if got := readFile(t, path); got != notesDoc {
		t.Fatalf("file after undo:\n%s\nwant:\n%s", got, notesDoc)
	}
	if !strings.Contains(buf.String(), "reverted #") {
		t.Fatalf("undo output=%q", buf.String())
	}

	if err := a.runUndo(ctx, &buf, path, 0); err == nil || !strings.Contains(err.Error(), "nothing to undo") {
		t.Fatalf("second undo err=%v, want nothing to undo", err)
	}
}

func TestRunUndoRefusesChangedBlock(t *testing.T) {
	path := writeNotes(t, notesDoc)
	a := newTestApp(t, nil)
	ctx := context.Background()

	if err := a.runReplace(ctx, &bytes.Buffer{}, cursorAt(path, 6), "print(1)", applyOptions{}); err != nil {
		t.Fatalf("runReplace: %v", err)
	}
	edited := strings.Replace(readFile(t, path), "print(1)", "print(3)", 1)
	if err := os.WriteFile(path, []byte(edited), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	err := a.runUndo(ctx, &bytes.Buffer{}, path, 0)
	if err == nil || !strings.Contains(err.Error(), "block changed") {
		t.Fatalf("err=%v, want block changed", err)
	}
	if got := readFile(t, path); got != edited {
		t.Fatalf("file modified by refused undo:\n%s", got)
	}
}

func TestRunUndoWrongPath(t *testing.T) {
	path := writeNotes(t, notesDoc)
	other := filepath.Join(t.TempDir(), "other.md")
	if err := os.WriteFile(other, []byte(notesDoc), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	a := newTestApp(t, nil)
	ctx := context.Background()

	if err := a.runReplace(ctx, &bytes.Buffer{}, cursorAt(path, 6), "print(1)", applyOptions{}); err != nil {
		t.Fatalf("runReplace: %v", err)
	}

	var buf bytes.Buffer
	if err := a.runHistory(ctx, &buf, path, 0, true); err != nil {
		t.Fatalf("runHistory: %v", err)
	}
	var entries []history.Entry
	if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	err := a.runUndo(ctx, &bytes.Buffer{}, other, entries[0].ID)
	if err == nil || !strings.Contains(err.Error(), "belongs to") {
		t.Fatalf("err=%v, want belongs to", err)
	}
}

func TestRunReplaceDryRun(t *testing.T) {
	path := writeNotes(t, notesDoc)
	a := newTestApp(t, nil)

	var buf bytes.Buffer
	err := a.runReplace(context.Background(), &buf, cursorAt(path, 6), `print("bye")`, applyOptions{dryRun: true})
	if err != nil {
		t.Fatalf("runReplace: %v", err)
	}
	if got := readFile(t, path); got != notesDoc {
		t.Fatalf("dry run modified file:\n%s", got)
	}
	out := buf.String()
	if !strings.Contains(out, `-print("hi")`) || !strings.Contains(out, `+print("bye")`) {
		t.Fatalf("diff missing from output:\n%s", out)
	}
}

func TestRunReplaceNoChange(t *testing.T) {
	path := writeNotes(t, notesDoc)
	a := newTestApp(t, nil)

	var buf bytes.Buffer
	if err := a.runReplace(context.Background(), &buf, cursorAt(path, 6), `print("hi")`, applyOptions{}); err != nil {
		t.Fatalf("runReplace: %v", err)
	}
	if !strings.Contains(buf.String(), "no changes") {
		t.Fatalf("output=%q", buf.String())
	}
}

func TestRunReplaceConfirm(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		path := writeNotes(t, notesDoc)
		cfg := testConfig(t)
		cfg.Edit.Confirm = true
		a := newTestApp(t, cfg)
		calls := stubConfirm(t, false, nil)

		var buf bytes.Buffer
		if err := a.runReplace(context.Background(), &buf, cursorAt(path, 6), "print(1)", applyOptions{}); err != nil {
			t.Fatalf("runReplace: %v", err)
		}
		if *calls != 1 {
			t.Fatalf("confirm called %d times, want 1", *calls)
		}
		if got := readFile(t, path); got != notesDoc {
			t.Fatalf("declined replace modified file:\n%s", got)
		}
		if !strings.Contains(buf.String(), "cancelled") {
			t.Fatalf("output=%q", buf.String())
		}
	})

	t.Run("yes skips prompt", func(t *testing.T) {
		path := writeNotes(t, notesDoc)
		cfg := testConfig(t)
		cfg.Edit.Confirm = true
		a := newTestApp(t, cfg)
		calls := stubConfirm(t, false, nil)

		if err := a.runReplace(context.Background(), &bytes.Buffer{}, cursorAt(path, 6), "print(1)", applyOptions{yes: true}); err != nil {
			t.Fatalf("runReplace: %v", err)
		}
		if *calls != 0 {
			t.Fatalf("confirm called %d times, want 0", *calls)
		}
		if !strings.Contains(readFile(t, path), "print(1)") {
			t.Fatal("replace not applied")
		}
	})

	t.Run("prompt error", func(t *testing.T) {
		path := writeNotes(t, notesDoc)
		cfg := testConfig(t)
		cfg.Edit.Confirm = true
		a := newTestApp(t, cfg)
		boom := errors.New("no tty")
		stubConfirm(t, false, boom)

		err := a.runReplace(context.Background(), &bytes.Buffer{}, cursorAt(path, 6), "print(1)", applyOptions{})
		if !errors.Is(err, boom) {
			t.Fatalf("err=%v, want %v", err, boom)
		}
	})
}

func TestRunReplaceHistoryDisabled(t *testing.T) {
	path := writeNotes(t, notesDoc)
	cfg := testConfig(t)
	cfg.History.Enabled = false
	a := newTestApp(t, cfg)

	if err := a.runReplace(context.Background(), &bytes.Buffer{}, cursorAt(path, 6), "print(1)", applyOptions{}); err != nil {
		t.Fatalf("runReplace: %v", err)
	}
	if _, err := os.Stat(cfg.History.Path); !os.IsNotExist(err) {
		t.Fatalf("history db created while disabled: %v", err)
	}
}

func TestRunReplaceHistoryFailureIsNotFatal(t *testing.T) {
	path := writeNotes(t, notesDoc)
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg.History.Path = filepath.Join(blocker, "history.db")
	a := newTestApp(t, cfg)

	if err := a.runReplace(context.Background(), &bytes.Buffer{}, cursorAt(path, 6), "print(1)", applyOptions{}); err != nil {
		t.Fatalf("runReplace: %v", err)
	}
	if !strings.Contains(readFile(t, path), "print(1)") {
		t.Fatal("replace not applied")
	}
}

func TestRunHistoryText(t *testing.T) {
	path := writeNotes(t, notesDoc)
	a := newTestApp(t, nil)
	ctx := context.Background()

	var buf bytes.Buffer
	if err := a.runHistory(ctx, &buf, "", 20, false); err != nil {
		t.Fatalf("runHistory: %v", err)
	}
	if !strings.Contains(buf.String(), "no history") {
		t.Fatalf("output=%q", buf.String())
	}

	if err := a.runReplace(ctx, &bytes.Buffer{}, cursorAt(path, 12), "x := 2\ny := 3", applyOptions{}); err != nil {
		t.Fatalf("runReplace: %v", err)
	}
	buf.Reset()
	if err := a.runHistory(ctx, &buf, "", 20, false); err != nil {
		t.Fatalf("runHistory: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, path+":11-14  go") || !strings.Contains(out, "1 -> 2 lines") {
		t.Fatalf("output=%q", out)
	}
}

func TestReplacementContent(t *testing.T) {
	reset := func() {
		replaceFromFile = ""
		replaceFromClipboard = false
	}
	t.Cleanup(reset)

	t.Run("reader", func(t *testing.T) {
		reset()
		got, err := replacementContent(strings.NewReader("a\nb\n"))
		if err != nil {
			t.Fatalf("replacementContent: %v", err)
		}
		if got != "a\nb" {
			t.Fatalf("got %q, want %q", got, "a\nb")
		}
	})

	t.Run("file", func(t *testing.T) {
		reset()
		replaceFromFile = filepath.Join(t.TempDir(), "snippet.py")
		if err := os.WriteFile(replaceFromFile, []byte("print(1)\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		got, err := replacementContent(strings.NewReader("ignored"))
		if err != nil {
			t.Fatalf("replacementContent: %v", err)
		}
		if got != "print(1)" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		reset()
		replaceFromFile = filepath.Join(t.TempDir(), "missing.py")
		if _, err := replacementContent(strings.NewReader("")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}
