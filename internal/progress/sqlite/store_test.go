package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"FreshmanRoll/internal/progress"
	"FreshmanRoll/internal/route"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "progress.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestLoadEmpty(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	rec, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rec.Completed) != 0 || rec.MetaUnlocked {
		t.Fatalf("expected empty record, got %+v", rec)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTempStore(t)
	in := progress.Record{
		Completed:    []route.Ending{route.EndingLegend, route.EndingTrueWake},
		MetaUnlocked: false,
	}
	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Completed) != 2 {
		t.Fatalf("completed = %v, want 2 endings", got.Completed)
	}
	seen := map[route.Ending]bool{}
	for _, e := range got.Completed {
		seen[e] = true
	}
	if !seen[route.EndingLegend] || !seen[route.EndingTrueWake] {
		t.Fatalf("completed = %v, want legend and true_wake", got.Completed)
	}
}

func TestSaveNeverRegresses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTempStore(t)
	if err := store.Save(ctx, progress.Record{
		Completed:    route.PrimaryEndings(),
		MetaUnlocked: true,
	}); err != nil {
		t.Fatalf("save: %v", err)
	}
	// An older, smaller snapshot must not remove anything.
	if err := store.Save(ctx, progress.Record{Completed: []route.Ending{route.EndingLegend}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.MetaUnlocked {
		t.Fatal("meta_unlocked regressed")
	}
	if len(got.Completed) != 6 {
		t.Fatalf("completed = %v, want 6 endings", got.Completed)
	}
}

func TestReopenKeepsProgress(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Save(ctx, progress.Record{Completed: []route.Ending{route.EndingSunkLegend}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Migrations are recorded, so reopening applies nothing twice.
	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	got, err := second.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Completed) != 1 || got.Completed[0] != route.EndingSunkLegend {
		t.Fatalf("completed = %v, want [sunk_legend]", got.Completed)
	}

	tr := progress.NewTracker()
	if err := tr.Restore(got); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !tr.Has(route.EndingSunkLegend) {
		t.Fatal("expected restored tracker to hold sunk_legend")
	}
}

func TestExtractUp(t *testing.T) {
	t.Parallel()

	got := extractUp("-- +migrate Up\nCREATE A;\n-- +migrate Down\nDROP A;\n")
	if got != "\nCREATE A;\n" {
		t.Fatalf("extractUp = %q", got)
	}
	if extractUp("CREATE B;") != "CREATE B;" {
		t.Fatal("expected content without markers to pass through")
	}
}
