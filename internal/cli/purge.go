package cli

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/suteru/suteru/internal/trash"
)

// Purge permanently deletes trashed items. The selection must be explicit:
// entry names as arguments, filter flags, or --empty for everything.
// Irreversible, so a prompt (or -f) guards every invocation.
func (c *CLI) Purge(args []string) error {
	slog.Debug("cli.purge started")
	defer slog.Debug("cli.purge finished")

	opts, err := c.filterOptions()
	if err != nil {
		return err
	}
	// Config-side criteria must not quietly narrow a purge, nor count as
	// an explicit selection; only command-line flags do.
	if c.option.Filter.Newer == "" {
		opts.NewerThan = 0
	}
	if c.option.Filter.SizeMin == "" {
		opts.SizeMin = ""
	}
	if c.option.Filter.SizeMax == "" {
		opts.SizeMax = ""
	}

	switch {
	case len(args) > 0:
		return c.purgeNamed(args, opts)
	case !opts.IsZero():
		return c.purgeMatching(opts)
	case c.option.Filter.Empty:
		return c.purgeAll()
	default:
		return errors.New("purge requires a selection: entry names, filter flags, or --empty")
	}
}

func (c *CLI) purgeNamed(args []string, opts trash.FilterOptions) error {
	items, err := c.engine.List(opts)
	if err != nil {
		return err
	}

	selected := selectItems(items, args)
	if len(selected) == 0 {
		return errors.New("no files match the given selection")
	}

	if !c.option.Rm.Force {
		if !c.confirm(fmt.Sprintf("Permanently delete %d file(s)? This cannot be undone.", len(selected))) {
			fmt.Println("Purge canceled.")
			return nil
		}
	}

	count, err := c.engine.Purge(selected)
	c.reportPurged(count)
	return err
}

func (c *CLI) purgeMatching(opts trash.FilterOptions) error {
	items, err := c.engine.List(opts)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No files match the given selection.")
		return nil
	}

	if !c.option.Rm.Force {
		if !c.confirm(fmt.Sprintf("Permanently delete %d matching file(s)? This cannot be undone.", len(items))) {
			fmt.Println("Purge canceled.")
			return nil
		}
	}

	count, err := c.engine.Purge(items)
	c.reportPurged(count)
	return err
}

func (c *CLI) purgeAll() error {
	confirmed := c.option.Rm.Force
	if !confirmed {
		confirmed = c.confirm("Empty the trash entirely? This cannot be undone.")
		if !confirmed {
			fmt.Println("Purge canceled.")
			return nil
		}
	}

	count, err := c.engine.PurgeMatching(trash.FilterOptions{}, confirmed)
	c.reportPurged(count)
	return err
}

func (c *CLI) reportPurged(count int) {
	if count > 0 {
		fmt.Printf("Permanently deleted %d file(s).\n", count)
	}
}

// confirm asks a y/N question on the terminal. Without a terminal the
// answer is no; scripts must pass -f.
func (c *CLI) confirm(prompt string) bool {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		fmt.Fprintln(os.Stderr, "standard input is not a terminal; use -f to skip confirmation")
		return false
	}

	fmt.Printf("%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
