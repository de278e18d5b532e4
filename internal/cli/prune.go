package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Prune cleans up trash internals. Currently the only target is orphaned
// metadata records left behind by interrupted deletes.
func (c *CLI) Prune(target string) error {
	slog.Debug("cli.prune started", "target", target)
	defer slog.Debug("cli.prune finished")

	switch target {
	case "orphans":
		return c.pruneOrphans()
	default:
		return fmt.Errorf("unknown prune target: %s", target)
	}
}

func (c *CLI) pruneOrphans() error {
	orphans, err := c.engine.Orphans()
	if err != nil {
		return err
	}

	if len(orphans) == 0 {
		fmt.Println("No orphaned metadata records found.")
		return nil
	}

	useColor := isatty.IsTerminal(os.Stdout.Fd())
	green := color.New(color.FgHiGreen).SprintfFunc()
	white := color.New(color.FgWhite).SprintfFunc()
	if !useColor {
		green = fmt.Sprintf
		white = fmt.Sprintf
	}

	fmt.Printf("%s %s %s\n",
		green("%-20s", "Deleted At"),
		green("%-40s", "Original Path"),
		green("%-30s", "Record"),
	)
	for _, o := range orphans {
		fmt.Printf("%s %s %s\n",
			white("%-20s", humanize.Time(o.DeletedAt)),
			white("%-40s", o.OriginalPath),
			white("%-30s", o.InfoPath),
		)
	}
	fmt.Println()

	if !c.option.Rm.Force {
		if !c.confirm(fmt.Sprintf("Remove %d orphaned metadata records?", len(orphans))) {
			fmt.Println("Pruning canceled.")
			return nil
		}
	}

	var failed int
	for _, o := range orphans {
		if err := c.engine.RemoveOrphan(o); err != nil {
			slog.Error("failed to remove orphaned record", "path", o.InfoPath, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to remove %d orphaned records", failed)
	}

	fmt.Printf("Removed %d orphaned metadata records.\n", len(orphans))
	return nil
}
