//go:build !windows

package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// SameDevice reports whether two paths reside on the same filesystem.
// If dst does not exist yet, its parent directory is checked instead.
func SameDevice(src, dst string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", src, err)
	}

	dstInfo, err := os.Stat(dst)
	if os.IsNotExist(err) {
		dstInfo, err = os.Stat(filepath.Dir(dst))
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", dst, err)
	}

	srcSys, ok1 := srcInfo.Sys().(*syscall.Stat_t)
	dstSys, ok2 := dstInfo.Sys().(*syscall.Stat_t)
	if !ok1 || !ok2 {
		return false, fmt.Errorf("failed to get device information")
	}

	return srcSys.Dev == dstSys.Dev, nil
}

// DeviceID returns the device identifier of the filesystem containing path.
func DeviceID(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	sys, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, fmt.Errorf("failed to get device information for %s", path)
	}
	return uint64(sys.Dev), nil
}
