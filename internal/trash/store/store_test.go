package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/suteru/suteru/internal/trash/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Init(filepath.Join(t.TempDir(), "Trash"), "")
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	return s
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReserveClaimsName(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Reserve("report.txt"); err != nil {
		t.Fatalf("first Reserve() error: %v", err)
	}

	_, err := s.Reserve("report.txt")
	if !core.IsNameTaken(err) {
		t.Fatalf("second Reserve() error = %v, want ErrNameTaken", err)
	}
}

func TestReserveUniqueDisambiguates(t *testing.T) {
	s := newTestStore(t)

	names := make([]string, 3)
	for i := range names {
		res, err := s.ReserveUnique("report.txt")
		if err != nil {
			t.Fatalf("ReserveUnique() error: %v", err)
		}
		names[i] = res.Name
	}

	want := []string{"report.txt", "report.txt.1", "report.txt.2"}
	for i, name := range names {
		if name != want[i] {
			t.Errorf("reservation %d = %q, want %q", i, name, want[i])
		}
	}
}

func TestCommitAndList(t *testing.T) {
	s := newTestStore(t)
	src := filepath.Join(t.TempDir(), "report.txt")
	writeFile(t, src, "abc")

	res, err := s.Reserve("report.txt")
	if err != nil {
		t.Fatalf("Reserve() error: %v", err)
	}

	deletedAt := time.Now()
	item, err := s.Commit(res, src, src, deletedAt, CommitOptions{})
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source still exists after commit")
	}
	content, err := os.ReadFile(item.TrashPath)
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if string(content) != "abc" {
		t.Errorf("payload content = %q, want %q", content, "abc")
	}

	items, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("List() returned %d items, want 1", len(items))
	}
	if items[0].OriginalPath != src {
		t.Errorf("OriginalPath = %q, want %q", items[0].OriginalPath, src)
	}

	if !s.Contains(item) {
		t.Error("Contains() = false for the store's own item")
	}
	other := newTestStore(t)
	if other.Contains(item) {
		t.Error("Contains() = true for a different store's item")
	}
}

func TestCommitRollsBackOnMoveFailure(t *testing.T) {
	s := newTestStore(t)

	res, err := s.Reserve("missing.txt")
	if err != nil {
		t.Fatalf("Reserve() error: %v", err)
	}

	_, err = s.Commit(res, filepath.Join(t.TempDir(), "does-not-exist"), "/tmp/does-not-exist", time.Now(), CommitOptions{})
	if !core.IsMoveFailed(err) {
		t.Fatalf("Commit() error = %v, want ErrMoveFailed", err)
	}

	// The rolled-back reservation must free the name.
	if _, err := s.Reserve("missing.txt"); err != nil {
		t.Fatalf("Reserve() after rollback error: %v", err)
	}
}

func TestListSkipsPendingRecord(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Reserve("pending.txt"); err != nil {
		t.Fatalf("Reserve() error: %v", err)
	}

	items, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("List() surfaced a pending record: %+v", items)
	}
}

func TestListSkipsOrphanedRecord(t *testing.T) {
	s := newTestStore(t)
	src := filepath.Join(t.TempDir(), "ghost.txt")
	writeFile(t, src, "boo")

	res, err := s.Reserve("ghost.txt")
	if err != nil {
		t.Fatalf("Reserve() error: %v", err)
	}
	item, err := s.Commit(res, src, src, time.Now(), CommitOptions{})
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	// Simulate an interrupted delete: payload gone, record left behind.
	if err := os.Remove(item.TrashPath); err != nil {
		t.Fatal(err)
	}

	items, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("List() surfaced an orphaned record: %+v", items)
	}

	orphans, err := s.Orphans()
	if err != nil {
		t.Fatalf("Orphans() error: %v", err)
	}
	if len(orphans) != 1 {
		t.Fatalf("Orphans() returned %d, want 1", len(orphans))
	}
	if orphans[0].OriginalPath != src {
		t.Errorf("orphan OriginalPath = %q, want %q", orphans[0].OriginalPath, src)
	}
}

func TestListSkipsCorruptRecord(t *testing.T) {
	s := newTestStore(t)
	src := filepath.Join(t.TempDir(), "good.txt")
	writeFile(t, src, "ok")

	res, err := s.Reserve("good.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Commit(res, src, src, time.Now(), CommitOptions{}); err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Join(s.infoDir, "bad.trashinfo"), "not a record at all")

	items, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("List() returned %d items, want 1 (corrupt record must not hide the rest)", len(items))
	}
	if items[0].Name != "good.txt" {
		t.Errorf("surviving item = %q, want %q", items[0].Name, "good.txt")
	}
}

func TestDeleteRemovesPayloadAndRecord(t *testing.T) {
	s := newTestStore(t)
	src := filepath.Join(t.TempDir(), "victim.txt")
	writeFile(t, src, "gone")

	res, err := s.Reserve("victim.txt")
	if err != nil {
		t.Fatal(err)
	}
	item, err := s.Commit(res, src, src, time.Now(), CommitOptions{})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(item); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	if _, err := os.Stat(item.TrashPath); !os.IsNotExist(err) {
		t.Error("payload still exists after delete")
	}
	if _, err := os.Stat(item.InfoPath); !os.IsNotExist(err) {
		t.Error("record still exists after delete")
	}
}

func TestReleaseReturnsLocations(t *testing.T) {
	s := newTestStore(t)
	src := filepath.Join(t.TempDir(), "loc.txt")
	writeFile(t, src, "x")

	res, err := s.Reserve("loc.txt")
	if err != nil {
		t.Fatal(err)
	}
	item, err := s.Commit(res, src, src, time.Now(), CommitOptions{})
	if err != nil {
		t.Fatal(err)
	}

	payload, info := s.Release(item)
	if payload != item.TrashPath || info != item.InfoPath {
		t.Errorf("Release() = (%q, %q), want (%q, %q)", payload, info, item.TrashPath, item.InfoPath)
	}
	if _, err := os.Stat(payload); err != nil {
		t.Error("Release() must not delete the payload")
	}
}

func TestCandidate(t *testing.T) {
	tests := []struct {
		base string
		n    int
		want string
	}{
		{"report.txt", 0, "report.txt"},
		{"report.txt", 1, "report.txt.1"},
		{"report.txt", 12, "report.txt.12"},
	}
	for _, tt := range tests {
		if got := candidate(tt.base, tt.n); got != tt.want {
			t.Errorf("candidate(%q, %d) = %q, want %q", tt.base, tt.n, got, tt.want)
		}
	}
}
