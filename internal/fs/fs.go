// Package fs provides the filesystem primitives the trash engine builds
// on: atomic exclusive creation, same-filesystem renames, and a verified
// copy-then-delete fallback for cross-device moves.
package fs

import (
	"fmt"
	"io"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	cp "github.com/otiai10/copy"
)

// CreateExclusive creates a new file with O_EXCL so the creation is an
// atomic claim on the name. Returns os.ErrExist if the file already exists.
func CreateExclusive(path string, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
}

// Rename moves src to dst with rename(2). It never crosses devices; a
// cross-device attempt fails with EXDEV.
func Rename(src, dst string) error {
	return os.Rename(src, dst)
}

// CopyAndDelete copies src to dst recursively, verifies the copy, and only
// then removes src. If verification or source removal fails, the copy at
// dst is removed so no silent duplicate is left behind.
func CopyAndDelete(src, dst string) error {
	opts := cp.Options{
		OnSymlink: func(string) cp.SymlinkAction {
			return cp.Shallow
		},
		PreserveTimes: true,
		PreserveOwner: true,
		Sync:          true,
	}

	if err := cp.Copy(src, dst, opts); err != nil {
		_ = os.RemoveAll(dst)
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}

	if err := VerifyCopy(src, dst); err != nil {
		_ = os.RemoveAll(dst)
		return fmt.Errorf("verify copy of %s: %w", src, err)
	}

	if err := os.RemoveAll(src); err != nil {
		if rmErr := os.RemoveAll(dst); rmErr != nil {
			return fmt.Errorf("failed to remove both source and copy: %v, %v", err, rmErr)
		}
		return fmt.Errorf("remove source after copy: %w", err)
	}

	return nil
}

// VerifyCopy checks that dst is a faithful copy of src. Regular files are
// compared by size and xxhash digest; directories are walked recursively.
// Symlinks are compared by target.
func VerifyCopy(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.Type()&iofs.ModeSymlink != 0:
			want, err := os.Readlink(path)
			if err != nil {
				return err
			}
			got, err := os.Readlink(target)
			if err != nil {
				return err
			}
			if want != got {
				return fmt.Errorf("symlink target mismatch at %s", target)
			}
			return nil

		case d.IsDir():
			info, err := os.Stat(target)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("expected directory at %s", target)
			}
			return nil

		default:
			return verifyFile(path, target)
		}
	})
}

func verifyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return err
	}
	if srcInfo.Size() != dstInfo.Size() {
		return fmt.Errorf("size mismatch at %s: %d != %d", dst, srcInfo.Size(), dstInfo.Size())
	}

	srcSum, err := hashFile(src)
	if err != nil {
		return err
	}
	dstSum, err := hashFile(dst)
	if err != nil {
		return err
	}
	if srcSum != dstSum {
		return fmt.Errorf("checksum mismatch at %s", dst)
	}
	return nil
}

func hashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, fmt.Errorf("hash %s: %w", path, err)
	}
	return h.Sum64(), nil
}

// Move moves src to dst, creating dst's parent directory if needed. The
// move is a rename when src and dst share a device; otherwise, when
// allowCrossDev is set, it falls back to a verified copy-then-delete.
func Move(src, dst string, allowCrossDev bool) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}

	if err := os.Rename(src, dst); err != nil {
		if !allowCrossDev {
			return fmt.Errorf("rename %s to %s: %w", src, dst, err)
		}
		slog.Debug("rename failed, falling back to copy-and-delete", "src", src, "dst", dst, "error", err)
		return CopyAndDelete(src, dst)
	}

	return nil
}

// DirSize returns the total size in bytes of the file or directory tree
// rooted at path.
func DirSize(path string) (int64, error) {
	var size int64
	err := filepath.WalkDir(path, func(_ string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			size += info.Size()
		}
		return nil
	})
	return size, err
}
