// Package volume maps absolute paths to the mounted filesystem containing
// them and to the trash-store root for that volume.
package volume

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/suteru/suteru/internal/fs"
	"github.com/suteru/suteru/internal/trash/core"
)

// Filesystems that cannot hold trash directories.
var skipFSTypes = map[string]bool{
	"proc":        true,
	"sysfs":       true,
	"devtmpfs":    true,
	"devpts":      true,
	"tmpfs":       true,
	"cgroup":      true,
	"cgroup2":     true,
	"pstore":      true,
	"securityfs":  true,
	"debugfs":     true,
	"configfs":    true,
	"fusectl":     true,
	"bpf":         true,
	"nsfs":        true,
	"efivarfs":    true,
	"hugetlbfs":   true,
	"mqueue":      true,
	"binfmt_misc": true,
}

// Volume identifies one mounted filesystem.
type Volume struct {
	// MountPoint is the filesystem's top directory.
	MountPoint string

	// Dev is the device identifier, the unit within which renames are
	// atomic.
	Dev uint64
}

// Resolver maps paths to volumes and volumes to store roots. It reads the
// mount table once and caches resolutions for the process lifetime; mount
// topology is assumed stable for the duration of a run. Construct one
// explicitly per engine; there is no package-level instance.
type Resolver struct {
	mu     sync.Mutex
	mounts []string // sorted longest-first
	cache  map[string]*Volume
	uid    int
}

// NewResolver creates a resolver backed by the system mount table.
func NewResolver() (*Resolver, error) {
	mounts, err := mountPoints()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUnresolvableVolume, err)
	}
	return newResolverWith(mounts, os.Getuid()), nil
}

// newResolverWith builds a resolver from an explicit mount list. Split out
// so tests can inject synthetic mount tables.
func newResolverWith(mounts []string, uid int) *Resolver {
	sorted := make([]string, len(mounts))
	copy(sorted, mounts)
	sort.Slice(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	return &Resolver{
		mounts: sorted,
		cache:  make(map[string]*Volume),
		uid:    uid,
	}
}

// Resolve returns the volume containing path. Device identity comes from
// the containing mount point, so the leaf itself need not exist.
func (r *Resolver) Resolve(path string) (*Volume, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUnresolvableVolume, err)
	}

	mount := r.mountPointOf(abs)

	r.mu.Lock()
	if v, ok := r.cache[mount]; ok {
		r.mu.Unlock()
		return v, nil
	}
	r.mu.Unlock()

	dev, err := fs.DeviceID(mount)
	if err != nil {
		return nil, fmt.Errorf("%w: stat mount point %s: %v", core.ErrUnresolvableVolume, mount, err)
	}

	v := &Volume{MountPoint: mount, Dev: dev}
	r.mu.Lock()
	r.cache[mount] = v
	r.mu.Unlock()

	slog.Debug("resolved volume", "path", abs, "mountpoint", mount, "dev", dev)
	return v, nil
}

// mountPointOf finds the longest mount prefix containing path. The mount
// list is sorted longest-first, so the first prefix match wins.
func (r *Resolver) mountPointOf(abs string) string {
	for _, m := range r.mounts {
		if m == "/" || abs == m || strings.HasPrefix(abs, m+string(filepath.Separator)) {
			return m
		}
	}
	return "/"
}

// StoreRoot returns the trash-store root for the given volume.
// homeVolume/homeTrashDir anchor the home store; any other volume gets a
// per-volume store at its top directory, preferring an already valid
// $topdir/.Trash/$uid over $topdir/.Trash-$uid.
func (r *Resolver) StoreRoot(v *Volume, homeVolume *Volume, homeTrashDir string) string {
	if v.Dev == homeVolume.Dev {
		return homeTrashDir
	}

	shared := filepath.Join(v.MountPoint, ".Trash", strconv.Itoa(r.uid))
	if isValidSharedTrash(filepath.Join(v.MountPoint, ".Trash")) {
		return shared
	}

	return filepath.Join(v.MountPoint, fmt.Sprintf(".Trash-%d", r.uid))
}

// StoreRoots returns the candidate store roots on v that may already hold
// entries, for store discovery during list.
func (r *Resolver) StoreRoots(v *Volume) []string {
	return []string{
		filepath.Join(v.MountPoint, ".Trash", strconv.Itoa(r.uid)),
		filepath.Join(v.MountPoint, fmt.Sprintf(".Trash-%d", r.uid)),
	}
}

// Volumes returns every known volume, resolving mount points lazily.
// Mounts that cannot be stat'd are skipped.
func (r *Resolver) Volumes() []*Volume {
	var vols []*Volume
	seen := make(map[uint64]bool)
	for _, m := range r.mounts {
		v, err := r.Resolve(m)
		if err != nil {
			slog.Debug("skipping unresolvable mount", "mountpoint", m, "error", err)
			continue
		}
		if seen[v.Dev] {
			continue
		}
		seen[v.Dev] = true
		vols = append(vols, v)
	}
	return vols
}

// isValidSharedTrash checks the $topdir/.Trash directory per the trash
// spec: a real directory, not a symlink, with the sticky bit set.
func isValidSharedTrash(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	if !info.IsDir() || info.Mode()&os.ModeSymlink != 0 {
		return false
	}
	if info.Mode()&os.ModeSticky == 0 {
		slog.Debug("shared trash directory missing sticky bit", "path", path)
		return false
	}
	return true
}
