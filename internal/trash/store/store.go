// Package store implements the on-disk trash store: a per-volume root
// with a files/ payload directory and an info/ metadata directory, entries
// in both keyed by the same collision-resolved name.
package store

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/suteru/suteru/internal/fs"
	"github.com/suteru/suteru/internal/trash/core"
)

// Store is one volume's trash store. All payload moves into a store are
// same-filesystem renames unless the caller explicitly allows a copy
// fallback (home-trash fallback for volumes without their own store).
type Store struct {
	root      string
	filesDir  string
	infoDir   string
	mountRoot string // empty for the home store; records absolute paths
}

// Open returns a handle to the store rooted at root without touching the
// filesystem. mountRoot anchors relative record paths; pass "" for home
// stores.
func Open(root, mountRoot string) *Store {
	return &Store{
		root:      root,
		filesDir:  filepath.Join(root, "files"),
		infoDir:   filepath.Join(root, "info"),
		mountRoot: mountRoot,
	}
}

// Init opens the store and creates its directory structure with
// restrictive permissions.
func Init(root, mountRoot string) (*Store, error) {
	s := Open(root, mountRoot)
	for _, dir := range []string{s.filesDir, s.infoDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			if os.IsPermission(err) {
				return nil, core.NewStorageError("init", dir, core.ErrPermissionDenied)
			}
			return nil, fmt.Errorf("create trash directory: %w", err)
		}
	}
	return s, nil
}

// Exists reports whether a store directory structure is present at root.
func Exists(root string) bool {
	fi, err := os.Lstat(filepath.Join(root, "files"))
	if err != nil || !fi.IsDir() {
		return false
	}
	fi, err = os.Lstat(filepath.Join(root, "info"))
	return err == nil && fi.IsDir()
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// Contains reports whether the item's payload lives in this store.
func (s *Store) Contains(item *core.Item) bool {
	return strings.HasPrefix(item.TrashPath, s.filesDir+string(filepath.Separator))
}

// Reservation is an atomically claimed entry name. Until Commit completes
// the record on disk is a zero-length pending file that List never
// surfaces.
type Reservation struct {
	store    *Store
	Name     string
	infoPath string
}

// Reserve atomically claims name by creating its metadata record with
// O_EXCL. The created record is empty (pending) until Commit. Fails with
// ErrNameTaken when the record or a leftover payload under that name
// already exists.
func (s *Store) Reserve(name string) (*Reservation, error) {
	infoPath := filepath.Join(s.infoDir, name+recordExt)

	f, err := fs.CreateExclusive(infoPath, 0600)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrNameTaken, name)
		}
		if os.IsPermission(err) {
			return nil, core.NewStorageError("reserve", infoPath, core.ErrPermissionDenied)
		}
		return nil, fmt.Errorf("reserve %s: %w", name, err)
	}
	f.Close()

	// A payload without a record is an orphan squatting on the name.
	if _, err := os.Lstat(filepath.Join(s.filesDir, name)); err == nil {
		_ = os.Remove(infoPath)
		return nil, fmt.Errorf("%w: %s (orphaned payload)", core.ErrNameTaken, name)
	}

	return &Reservation{store: s, Name: name, infoPath: infoPath}, nil
}

// Rollback releases a reservation, deleting the pending record.
func (r *Reservation) Rollback() {
	if err := os.Remove(r.infoPath); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to roll back reservation", "path", r.infoPath, "error", err)
	}
}

// CommitOptions controls payload placement during Commit.
type CommitOptions struct {
	// AllowCopy permits a copy-then-delete when src is on a different
	// device than the store (home-trash fallback).
	AllowCopy bool
}

// Commit moves src into the store under the reserved name and completes
// the metadata record. On payload-move failure, the reservation is rolled
// back and ErrMoveFailed is returned; the source is left untouched.
func (s *Store) Commit(r *Reservation, src, originalPath string, deletedAt time.Time, opts CommitOptions) (*core.Item, error) {
	dst := filepath.Join(s.filesDir, r.Name)

	if err := fs.Move(src, dst, opts.AllowCopy); err != nil {
		r.Rollback()
		if errors.Is(err, os.ErrPermission) {
			return nil, core.NewStorageError("put", src, core.ErrPermissionDenied)
		}
		return nil, fmt.Errorf("%w: %v", core.ErrMoveFailed, err)
	}

	rec := &Record{
		Path:      relativePath(originalPath, s.mountRoot),
		DeletedAt: deletedAt,
	}
	if err := s.writeRecord(r, rec); err != nil {
		// Past the payload move; put the payload back rather than leave it
		// stranded under a pending record.
		if mvErr := fs.Move(dst, src, opts.AllowCopy); mvErr != nil {
			slog.Error("failed to return payload after record failure", "payload", dst, "error", mvErr)
		} else {
			r.Rollback()
		}
		return nil, fmt.Errorf("write record: %w", err)
	}

	info, err := os.Lstat(dst)
	if err != nil {
		return nil, fmt.Errorf("stat committed payload: %w", err)
	}

	return &core.Item{
		Name:         r.Name,
		OriginalPath: originalPath,
		TrashPath:    dst,
		InfoPath:     r.infoPath,
		DeletedAt:    deletedAt,
		Size:         info.Size(),
		IsDir:        info.IsDir(),
		Mode:         info.Mode(),
	}, nil
}

// writeRecord writes the full record to a temp file in info/ and renames
// it over the pending reservation, so the record is never observable half
// written.
func (s *Store) writeRecord(r *Reservation, rec *Record) error {
	tmpPath := filepath.Join(s.infoDir, fmt.Sprintf(".%s.tmp", uuid.New().String()))
	f, err := fs.CreateExclusive(tmpPath, 0600)
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}

	if _, err := f.WriteString(rec.Encode()); err != nil {
		f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp record: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync temp record: %w", err)
	}
	f.Close()

	if err := os.Rename(tmpPath, r.infoPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("finalize record: %w", err)
	}
	return nil
}

// List scans the metadata directory and returns every committed item whose
// payload is present. Pending, corrupt and orphaned records are skipped
// and logged, never returned as restorable items.
func (s *Store) List() ([]*core.Item, error) {
	entries, err := os.ReadDir(s.infoDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, core.NewStorageError("list", s.infoDir, err)
	}

	var items []*core.Item
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), recordExt) {
			continue
		}

		infoPath := filepath.Join(s.infoDir, entry.Name())
		rec, err := loadRecord(infoPath)
		if err != nil {
			switch {
			case os.IsNotExist(err) || errors.Is(err, os.ErrNotExist):
				// Removed by a concurrent process between scan and read.
			case errors.Is(err, io.EOF):
				slog.Debug("skipping pending record", "path", infoPath)
			default:
				slog.Warn("skipping unreadable record", "path", infoPath, "error", err)
			}
			continue
		}

		name := strings.TrimSuffix(entry.Name(), recordExt)
		trashPath := filepath.Join(s.filesDir, name)
		fi, err := os.Lstat(trashPath)
		if err != nil {
			slog.Warn("skipping orphaned record, payload missing",
				"record", infoPath, "payload", trashPath)
			continue
		}

		items = append(items, &core.Item{
			Name:         name,
			OriginalPath: resolvePath(rec.Path, s.mountRoot),
			TrashPath:    trashPath,
			InfoPath:     infoPath,
			DeletedAt:    rec.DeletedAt,
			Size:         fi.Size(),
			IsDir:        fi.IsDir(),
			Mode:         fi.Mode(),
		})
	}

	return items, nil
}

// Release returns the payload and metadata locations of an item without
// deleting anything.
func (s *Store) Release(item *core.Item) (payloadPath, infoPath string) {
	return item.TrashPath, item.InfoPath
}

// Delete permanently removes the item. The payload goes first: an
// interruption leaves an orphaned record, which List already refuses to
// surface, never a listable item with missing data.
func (s *Store) Delete(item *core.Item) error {
	if err := os.RemoveAll(item.TrashPath); err != nil {
		if os.IsPermission(err) {
			return core.NewStorageError("purge", item.TrashPath, core.ErrPermissionDenied)
		}
		return core.NewStorageError("purge", item.TrashPath, err)
	}
	if err := os.Remove(item.InfoPath); err != nil && !os.IsNotExist(err) {
		return core.NewStorageError("purge", item.InfoPath, fmt.Errorf("%w: %v", core.ErrOrphaned, err))
	}
	return nil
}

// RemoveRecord deletes only the metadata record. Used to prune orphans.
func (s *Store) RemoveRecord(infoPath string) error {
	return os.Remove(infoPath)
}

// Orphan is a metadata record whose payload no longer exists.
type Orphan struct {
	InfoPath     string
	OriginalPath string
	DeletedAt    time.Time
}

// Orphans scans the metadata directory for committed records whose payload
// is gone. These are leftovers of interrupted deletes; they are reported,
// never restorable.
func (s *Store) Orphans() ([]Orphan, error) {
	entries, err := os.ReadDir(s.infoDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, core.NewStorageError("orphans", s.infoDir, err)
	}

	var orphans []Orphan
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), recordExt) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), recordExt)
		if _, err := os.Lstat(filepath.Join(s.filesDir, name)); err == nil {
			continue
		}

		infoPath := filepath.Join(s.infoDir, entry.Name())
		rec, err := loadRecord(infoPath)
		if err != nil {
			// Pending or corrupt; not a committed orphan.
			continue
		}
		orphans = append(orphans, Orphan{
			InfoPath:     infoPath,
			OriginalPath: resolvePath(rec.Path, s.mountRoot),
			DeletedAt:    rec.DeletedAt,
		})
	}

	return orphans, nil
}
