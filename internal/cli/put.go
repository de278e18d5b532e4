package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/suteru/suteru/internal/trash/core"
)

func (c *CLI) Put(args []string) error {
	slog.Debug("cli.put started")
	defer slog.Debug("cli.put finished")

	if len(args) == 0 {
		return errors.New("too few arguments")
	}

	for _, arg := range args {
		if err := c.putPath(arg); err != nil {
			return fmt.Errorf("failed to process %s: %w", arg, err)
		}
	}

	return nil
}

func (c *CLI) putPath(path string) error {
	unsafe, err := isUnsafePath(path)
	if err != nil {
		return err
	}
	if unsafe {
		return fmt.Errorf("cannot trash %q: unsafe path", path)
	}

	item, err := c.engine.Put(path)
	if err != nil {
		if core.IsNotFound(err) {
			if c.option.Rm.Force {
				return nil
			}
			return fmt.Errorf("%s: no such file or directory", path)
		}
		return err
	}

	if c.option.Rm.Verbose || c.config.Core.Put.Verbose {
		if item.IsDir {
			fmt.Printf("removed directory '%s'\n", path)
		} else {
			fmt.Printf("removed '%s'\n", path)
		}
	}

	return nil
}

// isUnsafePath reports whether path refers to the filesystem root, the
// working directory, or one of its ancestors, none of which may be
// trashed.
func isUnsafePath(path string) (bool, error) {
	// "//" is an implementation-defined root per POSIX; refuse it outright.
	if strings.HasPrefix(path, "//") {
		return true, nil
	}

	cleaned := filepath.Clean(path)
	if cleaned == "/" || cleaned == "." {
		return true, nil
	}

	// Chains of ".." resolve to ancestors of the working directory.
	allDots := true
	for _, part := range strings.Split(cleaned, "/") {
		if part != ".." {
			allDots = false
			break
		}
	}
	if allDots {
		return true, nil
	}

	return false, nil
}
