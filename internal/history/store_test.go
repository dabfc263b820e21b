package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordListLastDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := &Entry{Path: "/notes/a.md", Start: 2, End: 5, Tag: "py", Language: "python", Before: "x = 1", After: "x = 2", CreatedAt: base}
	second := &Entry{Path: "/notes/a.md", Start: 8, End: 10, Tag: "go", Language: "go", Before: "", After: "package main", CreatedAt: base.Add(time.Minute)}
	other := &Entry{Path: "/notes/b.md", Start: 0, End: 2, Before: "a", After: "b", CreatedAt: base.Add(2 * time.Minute)}

	for _, e := range []*Entry{first, second, other} {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if e.ID == 0 {
			t.Fatal("Record() did not set ID")
		}
	}

	all, err := store.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List() len = %d, want 3", len(all))
	}
	if all[0].ID != other.ID || all[2].ID != first.ID {
		t.Fatalf("List() order = %d,%d,%d", all[0].ID, all[1].ID, all[2].ID)
	}

	forA, err := store.List(ctx, ListOptions{Path: "/notes/a.md", Limit: 10})
	if err != nil {
		t.Fatalf("List(path) error = %v", err)
	}
	if len(forA) != 2 {
		t.Fatalf("List(path) len = %d, want 2", len(forA))
	}

	last, err := store.Last(ctx, "/notes/a.md")
	if err != nil {
		t.Fatalf("Last() error = %v", err)
	}
	if last.ID != second.ID || last.After != "package main" || last.Language != "go" {
		t.Fatalf("Last() = %+v", last)
	}
	if !last.CreatedAt.Equal(second.CreatedAt) {
		t.Fatalf("CreatedAt = %v, want %v", last.CreatedAt, second.CreatedAt)
	}

	if err := store.Delete(ctx, second.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	last, err = store.Last(ctx, "/notes/a.md")
	if err != nil {
		t.Fatalf("Last() after delete error = %v", err)
	}
	if last.ID != first.ID || last.Before != "x = 1" || last.Start != 2 || last.End != 5 {
		t.Fatalf("Last() after delete = %+v", last)
	}

	if err := store.Delete(ctx, second.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	e := &Entry{Path: "/x.md", Start: 1, End: 3, Before: "old", After: "new"}
	if err := store.Record(ctx, e); err != nil {
		t.Fatal(err)
	}
	if e.CreatedAt.IsZero() {
		t.Fatal("Record() did not set CreatedAt")
	}

	got, err := store.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.After != "new" {
		t.Fatalf("After = %q, want %q", got.After, "new")
	}
	if _, err := store.Get(ctx, e.ID+100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestLastEmpty(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	if _, err := store.Last(context.Background(), "/none.md"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Last() error = %v, want ErrNotFound", err)
	}
}

func TestRecordValidation(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	if err := store.Record(context.Background(), nil); err == nil {
		t.Fatal("Record(nil) succeeded")
	}
	if err := store.Record(context.Background(), &Entry{Path: "  "}); err == nil {
		t.Fatal("Record() without path succeeded")
	}
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store, err := Open(Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Open(:memory:) error = %v", err)
	}
	defer store.Close()

	if err := store.Record(ctx, &Entry{Path: "/m.md", After: "a"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	entries, err := store.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("List() len = %d, want 1", len(entries))
	}
}

func TestResolveDBPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	got, err := ResolveDBPath("")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg-data", "fencedit", "history.db"); got != want {
		t.Fatalf("ResolveDBPath(\"\") = %q, want %q", got, want)
	}

	got, err = ResolveDBPath(":memory:")
	if err != nil || got != ":memory:" {
		t.Fatalf("ResolveDBPath(:memory:) = %q, %v", got, err)
	}

	t.Setenv("FENCEDIT_TEST_DIR", "/srv/data")
	got, err = ResolveDBPath("$FENCEDIT_TEST_DIR/h.db")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/srv/data/h.db" {
		t.Fatalf("ResolveDBPath(env) = %q, want /srv/data/h.db", got)
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(Config{Path: dbPath})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return store
}
