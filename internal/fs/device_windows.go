//go:build windows

package fs

import (
	"os"
	"path/filepath"
	"strings"
)

// SameDevice reports whether two paths share a volume. On Windows this is
// approximated by comparing volume names.
func SameDevice(src, dst string) (bool, error) {
	return strings.EqualFold(filepath.VolumeName(src), filepath.VolumeName(dst)), nil
}

// DeviceID returns a stable identifier for the volume containing path.
func DeviceID(path string) (uint64, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, err
	}
	vol := strings.ToUpper(filepath.VolumeName(path))
	var id uint64
	for _, r := range vol {
		id = id*31 + uint64(r)
	}
	return id, nil
}
