// Package trash implements the trash engine: locating the right store for
// a path, creating collision-free entries with durable restore metadata,
// and listing, restoring or permanently purging those entries.
package trash

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/suteru/suteru/internal/fs"
	"github.com/suteru/suteru/internal/trash/core"
	"github.com/suteru/suteru/internal/trash/store"
	"github.com/suteru/suteru/internal/trash/volume"
	"golang.org/x/sync/errgroup"
)

// Engine orchestrates put, list, restore and purge across per-volume
// trash stores. All engine state is held here explicitly; concurrent
// processes coordinate only through filesystem atomic primitives, never
// through in-process locks.
type Engine struct {
	config   *core.Config
	resolver *volume.Resolver

	homeStore  *store.Store
	homeVolume *volume.Volume

	mu     sync.Mutex
	stores map[string]*store.Store // store root -> opened store
}

// New creates an engine from the given configuration.
func New(cfg *core.Config) (*Engine, error) {
	if cfg == nil {
		cfg = core.NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	resolver, err := volume.NewResolver()
	if err != nil {
		return nil, err
	}

	homeStore, err := store.Init(cfg.HomeTrashDir, "")
	if err != nil {
		return nil, fmt.Errorf("initialize home trash: %w", err)
	}

	homeVolume, err := resolver.Resolve(cfg.HomeTrashDir)
	if err != nil {
		return nil, err
	}

	slog.Debug("engine initialized", "home_trash", cfg.HomeTrashDir, "run_id", cfg.RunID)

	return &Engine{
		config:     cfg,
		resolver:   resolver,
		homeStore:  homeStore,
		homeVolume: homeVolume,
		stores:     map[string]*store.Store{cfg.HomeTrashDir: homeStore},
	}, nil
}

// Put moves the file or directory at path into the trash store of its
// volume and returns the new item.
func (e *Engine) Put(path string) (*core.Item, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, core.NewStorageError("put", path, err)
	}

	if _, err := os.Lstat(abs); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrPermissionDenied, path)
		}
		return nil, core.NewStorageError("put", path, err)
	}

	st, crossDevice, err := e.storeFor(abs)
	if err != nil {
		return nil, err
	}

	res, err := st.ReserveUnique(filepath.Base(abs))
	if err != nil {
		return nil, err
	}

	item, err := st.Commit(res, abs, abs, time.Now(), store.CommitOptions{
		AllowCopy: crossDevice,
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("trashed", "path", abs, "name", item.Name, "store", st.Root())
	return item, nil
}

// storeFor resolves the store that keeps moves for abs same-filesystem.
// The second return is true only when the home-fallback kicked in and the
// subsequent move may cross devices.
func (e *Engine) storeFor(abs string) (*store.Store, bool, error) {
	vol, err := e.resolver.Resolve(abs)
	if err != nil {
		return nil, false, err
	}

	if vol.Dev == e.homeVolume.Dev {
		return e.homeStore, false, nil
	}

	root := e.resolver.StoreRoot(vol, e.homeVolume, e.config.HomeTrashDir)
	st, err := e.openStore(root, vol.MountPoint)
	if err == nil {
		return st, false, nil
	}

	if !e.config.HomeFallback {
		return nil, false, err
	}
	slog.Warn("volume store unavailable, falling back to home trash",
		"mountpoint", vol.MountPoint, "error", err)
	return e.homeStore, true, nil
}

func (e *Engine) openStore(root, mountRoot string) (*store.Store, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if st, ok := e.stores[root]; ok {
		return st, nil
	}
	st, err := store.Init(root, mountRoot)
	if err != nil {
		return nil, err
	}
	e.stores[root] = st
	return st, nil
}

// List returns every item matching opts across all discoverable stores,
// most recently trashed first. Stores are scanned concurrently; a failing
// store is logged and skipped so one bad volume cannot hide the rest.
func (e *Engine) List(opts FilterOptions) ([]*core.Item, error) {
	stores := e.discoverStores()

	var (
		mu    sync.Mutex
		items []*core.Item
	)
	var g errgroup.Group
	for _, st := range stores {
		g.Go(func() error {
			found, err := st.List()
			if err != nil {
				slog.Warn("failed to list store", "root", st.Root(), "error", err)
				return nil
			}
			mu.Lock()
			items = append(items, found...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	items = Filter(items, opts)

	slices.SortFunc(items, func(a, b *core.Item) int {
		return b.DeletedAt.Compare(a.DeletedAt)
	})
	return items, nil
}

// discoverStores returns the home store plus every per-volume store that
// already exists on a mounted volume. Volumes without a store directory
// are never touched.
func (e *Engine) discoverStores() []*store.Store {
	stores := []*store.Store{e.homeStore}

	for _, vol := range e.resolver.Volumes() {
		if vol.Dev == e.homeVolume.Dev {
			continue
		}
		for _, root := range e.resolver.StoreRoots(vol) {
			if store.Exists(root) {
				stores = append(stores, store.Open(root, vol.MountPoint))
			}
		}
	}

	return lo.UniqBy(stores, func(s *store.Store) string { return s.Root() })
}

// Restore moves the item's payload back to dst (its original path when
// dst is empty) and removes the metadata record. The destination is never
// overwritten. On payload-move failure, the metadata is left intact and
// the item remains restorable.
func (e *Engine) Restore(item *core.Item, dst string) error {
	if dst == "" {
		dst = item.OriginalPath
	}
	abs, err := filepath.Abs(dst)
	if err != nil {
		return core.NewStorageError("restore", dst, err)
	}

	if !item.Exists() {
		return fmt.Errorf("%w: %s", core.ErrNotFound, item.Name)
	}
	if _, err := os.Lstat(abs); err == nil {
		return fmt.Errorf("%w: %s", core.ErrDestinationExists, abs)
	}

	// Recreate intermediate directories removed since deletion.
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return core.NewStorageError("restore", abs, err)
	}

	sameDev, err := fs.SameDevice(item.TrashPath, abs)
	if err != nil {
		return core.NewStorageError("restore", abs, err)
	}

	switch {
	case sameDev:
		if err := fs.Rename(item.TrashPath, abs); err != nil {
			return fmt.Errorf("%w: %v", core.ErrMoveFailed, err)
		}
	case e.config.CrossDevice == core.CrossDeviceDeny:
		return fmt.Errorf("%w: %s is on a different volume than its store", core.ErrCrossDevice, abs)
	default:
		// Distinct code path with its own atomicity contract: the source
		// is deleted only after the copy is fully verified.
		if err := fs.CopyAndDelete(item.TrashPath, abs); err != nil {
			return fmt.Errorf("%w: %v", core.ErrMoveFailed, err)
		}
	}

	if err := os.Remove(item.InfoPath); err != nil && !os.IsNotExist(err) {
		// The payload is already back in place; the stale record becomes
		// an orphan that List refuses to surface.
		slog.Warn("failed to remove record after restore", "path", item.InfoPath, "error", err)
	}

	slog.Debug("restored", "name", item.Name, "to", abs)
	return nil
}

// Purge permanently deletes the given items. Returns the number purged
// and the combined error for any failures.
func (e *Engine) Purge(items []*core.Item) (int, error) {
	var (
		count int
		errs  []error
	)
	for _, item := range items {
		st := store.Open(storeRootOf(item), "")
		if err := st.Delete(item); err != nil {
			errs = append(errs, err)
			continue
		}
		count++
		slog.Debug("purged", "name", item.Name, "original", item.OriginalPath)
	}
	return count, errors.Join(errs...)
}

// PurgeMatching purges every item matching opts. An empty filter would
// empty the whole trash, so it is refused unless confirmed signals that
// the front end obtained explicit confirmation.
func (e *Engine) PurgeMatching(opts FilterOptions, confirmed bool) (int, error) {
	if opts.IsZero() && !confirmed {
		return 0, errors.New("refusing to empty all trash without confirmation")
	}

	items, err := e.List(opts)
	if err != nil {
		return 0, err
	}
	return e.Purge(items)
}

// Orphans reports metadata records without payloads across all stores.
func (e *Engine) Orphans() ([]store.Orphan, error) {
	var all []store.Orphan
	for _, st := range e.discoverStores() {
		orphans, err := st.Orphans()
		if err != nil {
			slog.Warn("failed to scan store for orphans", "root", st.Root(), "error", err)
			continue
		}
		all = append(all, orphans...)
	}
	return all, nil
}

// RemoveOrphan deletes an orphaned metadata record.
func (e *Engine) RemoveOrphan(o store.Orphan) error {
	return os.Remove(o.InfoPath)
}

// HomeStoreRoot returns the root of the home trash store.
func (e *Engine) HomeStoreRoot() string {
	return e.homeStore.Root()
}

// storeRootOf derives an item's store root from its payload path
// (<root>/files/<name>).
func storeRootOf(item *core.Item) string {
	return filepath.Dir(filepath.Dir(item.TrashPath))
}
