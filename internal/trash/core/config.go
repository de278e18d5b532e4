package core

import (
	"fmt"
	"os"
	"path/filepath"
)

// CrossDevicePolicy controls how Restore behaves when the destination is
// on a different device than the store holding the payload.
type CrossDevicePolicy string

const (
	// CrossDeviceCopy falls back to a verified copy-then-delete.
	CrossDeviceCopy CrossDevicePolicy = "copy"

	// CrossDeviceDeny refuses the restore with ErrCrossDevice.
	CrossDeviceDeny CrossDevicePolicy = "deny"
)

// Config holds the engine configuration. It is constructed explicitly by
// the caller; the engine keeps no ambient global state.
type Config struct {
	// HomeTrashDir overrides the home trash directory. When empty it
	// defaults to $XDG_DATA_HOME/Trash.
	HomeTrashDir string

	// HomeFallback enables falling back to the home trash when a volume's
	// own store cannot be created or written.
	HomeFallback bool

	// CrossDevice selects the restore behavior across devices.
	CrossDevice CrossDevicePolicy

	// RunID tags log records of a single invocation.
	RunID string
}

// NewDefaultConfig creates a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		HomeFallback: true,
		CrossDevice:  CrossDeviceCopy,
	}
}

// Validate checks the configuration and fills in defaults.
func (c *Config) Validate() error {
	if c.HomeTrashDir != "" && !filepath.IsAbs(c.HomeTrashDir) {
		return fmt.Errorf("home trash directory must be an absolute path: %s", c.HomeTrashDir)
	}

	if c.HomeTrashDir == "" {
		dataDir := os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
		c.HomeTrashDir = filepath.Join(dataDir, "Trash")
	}

	switch c.CrossDevice {
	case "":
		c.CrossDevice = CrossDeviceCopy
	case CrossDeviceCopy, CrossDeviceDeny:
	default:
		return fmt.Errorf("unknown cross-device policy: %q", c.CrossDevice)
	}

	return nil
}
