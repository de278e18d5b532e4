//go:build !windows

package volume

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/moby/sys/mountinfo"
)

// mountPoints reads the mount table, skipping pseudo and read-only
// filesystems that cannot hold trash directories.
func mountPoints() ([]string, error) {
	mounts, err := mountinfo.GetMounts(func(info *mountinfo.Info) (skip, stop bool) {
		if skipFSTypes[info.FSType] {
			return true, false
		}
		for _, opt := range strings.Split(info.Options, ",") {
			if opt == "ro" {
				slog.Debug("skipping read-only filesystem", "mountpoint", info.Mountpoint)
				return true, false
			}
		}
		return false, false
	})
	if err != nil {
		return nil, fmt.Errorf("read mount info: %w", err)
	}

	seen := make(map[string]bool)
	var points []string
	for _, m := range mounts {
		if !seen[m.Mountpoint] {
			points = append(points, m.Mountpoint)
			seen[m.Mountpoint] = true
		}
	}

	if !seen["/"] {
		points = append(points, "/")
	}

	return points, nil
}
