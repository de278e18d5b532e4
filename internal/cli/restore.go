package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/suteru/suteru/internal/trash"
	"github.com/suteru/suteru/internal/trash/core"
)

// Restore brings trashed items back. With no argument it restores the most
// recently trashed item; arguments select items by entry name or glob.
func (c *CLI) Restore(args []string) error {
	slog.Debug("cli.restore started")
	defer slog.Debug("cli.restore finished")

	opts, err := c.filterOptions()
	if err != nil {
		return err
	}

	items, err := c.engine.List(opts)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return errors.New("no files in trash")
	}

	selected := selectItems(items, args)
	if len(selected) == 0 {
		return errors.New("no files match the given selection")
	}

	// A bare restore undoes only the most recent delete.
	if len(args) == 0 {
		selected = selected[:1]
	}

	if c.config.Core.Restore.Confirm && !c.option.Rm.Force {
		if !c.confirm(fmt.Sprintf("Restore %d file(s)?", len(selected))) {
			fmt.Println("Restore canceled.")
			return nil
		}
	}

	var errs []error
	for _, item := range selected {
		dst := ""
		if c.option.To != "" {
			dst = filepath.Join(c.option.To, filepath.Base(item.OriginalPath))
		}
		if err := c.engine.Restore(item, dst); err != nil {
			if core.IsDestinationExists(err) {
				errs = append(errs, fmt.Errorf("restore %s: destination exists, not overwriting", item.Name))
				continue
			}
			errs = append(errs, fmt.Errorf("restore %s: %w", item.Name, err))
			continue
		}
		if c.config.Core.Restore.Verbose {
			if dst == "" {
				fmt.Printf("restored '%s' to %s\n", item.Name, item.OriginalPath)
			} else {
				fmt.Printf("restored '%s' to %s\n", item.Name, dst)
			}
		}
	}

	return formatErrors(errs)
}

// selectItems picks items by entry name, original basename, or glob. With
// no args, all items pass through (ordering already newest-first).
func selectItems(items []*core.Item, args []string) []*core.Item {
	if len(args) == 0 {
		return items
	}

	var selected []*core.Item
	for _, item := range items {
		for _, arg := range args {
			if item.Name == arg || filepath.Base(item.OriginalPath) == arg {
				selected = append(selected, item)
				break
			}
			matched := trash.Filter([]*core.Item{item}, trash.FilterOptions{Glob: arg})
			if len(matched) > 0 {
				selected = append(selected, item)
				break
			}
		}
	}
	return selected
}

func formatErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := fmt.Sprintf("%d errors occurred:\n", len(errs))
	for _, err := range errs {
		msg += fmt.Sprintf("  * %v\n", err)
	}
	return errors.New(msg)
}
