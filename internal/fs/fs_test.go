package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCreateExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claim")

	f, err := CreateExclusive(path, 0600)
	if err != nil {
		t.Fatalf("CreateExclusive() error: %v", err)
	}
	f.Close()

	if _, err := CreateExclusive(path, 0600); !os.IsExist(err) {
		t.Fatalf("second CreateExclusive() error = %v, want ErrExist", err)
	}
}

func TestMoveRename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "deep", "nested", "dst.txt")
	writeFile(t, src, "payload")

	if err := Move(src, dst, false); err != nil {
		t.Fatalf("Move() error: %v", err)
	}

	if _, err := os.Lstat(src); !os.IsNotExist(err) {
		t.Error("source still present after move")
	}
	content, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(content) != "payload" {
		t.Errorf("destination content = %q", content)
	}
}

func TestMoveMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := Move(filepath.Join(dir, "missing"), filepath.Join(dir, "dst"), false)
	if err == nil {
		t.Fatal("Move() of missing source succeeded")
	}
}

func TestCopyAndDelete(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tree")
	writeFile(t, filepath.Join(src, "a.txt"), "alpha")
	writeFile(t, filepath.Join(src, "sub", "b.txt"), "beta")
	if err := os.Symlink("a.txt", filepath.Join(src, "link")); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "copy")
	if err := CopyAndDelete(src, dst); err != nil {
		t.Fatalf("CopyAndDelete() error: %v", err)
	}

	if _, err := os.Lstat(src); !os.IsNotExist(err) {
		t.Error("source still present after copy-and-delete")
	}
	for path, want := range map[string]string{
		filepath.Join(dst, "a.txt"):        "alpha",
		filepath.Join(dst, "sub", "b.txt"): "beta",
	} {
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if string(content) != want {
			t.Errorf("%s content = %q, want %q", path, content, want)
		}
	}
	target, err := os.Readlink(filepath.Join(dst, "link"))
	if err != nil {
		t.Fatalf("readlink: %v", err)
	}
	if target != "a.txt" {
		t.Errorf("symlink target = %q, want a.txt", target)
	}
}

func TestVerifyCopyDetectsMismatch(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeFile(t, filepath.Join(src, "f.txt"), "original")
	writeFile(t, filepath.Join(dst, "f.txt"), "tampered!")

	if err := VerifyCopy(src, dst); err == nil {
		t.Fatal("VerifyCopy() accepted a tampered copy")
	}

	// Same length, different bytes: size check alone would miss this.
	writeFile(t, filepath.Join(dst, "f.txt"), "origina1")
	if err := VerifyCopy(src, dst); err == nil {
		t.Fatal("VerifyCopy() accepted a same-size corrupted copy")
	}

	writeFile(t, filepath.Join(dst, "f.txt"), "original")
	if err := VerifyCopy(src, dst); err != nil {
		t.Fatalf("VerifyCopy() rejected a faithful copy: %v", err)
	}
}

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "tree")
	writeFile(t, filepath.Join(root, "a"), "12345")
	writeFile(t, filepath.Join(root, "sub", "b"), "123")

	size, err := DirSize(root)
	if err != nil {
		t.Fatalf("DirSize() error: %v", err)
	}
	if size != 8 {
		t.Errorf("DirSize() = %d, want 8", size)
	}

	single := filepath.Join(dir, "one")
	writeFile(t, single, "xx")
	size, err = DirSize(single)
	if err != nil {
		t.Fatal(err)
	}
	if size != 2 {
		t.Errorf("DirSize(file) = %d, want 2", size)
	}
}

func TestSameDevice(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "x")
	writeFile(t, b, "y")

	same, err := SameDevice(a, b)
	if err != nil {
		t.Fatalf("SameDevice() error: %v", err)
	}
	if !same {
		t.Error("siblings in one directory reported as different devices")
	}

	// A missing destination falls back to its parent directory.
	same, err = SameDevice(a, filepath.Join(dir, "not-yet-created"))
	if err != nil {
		t.Fatalf("SameDevice() with missing dst error: %v", err)
	}
	if !same {
		t.Error("missing destination in same directory reported as different device")
	}
}
