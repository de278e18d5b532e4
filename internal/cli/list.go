package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/suteru/suteru/internal/trash/core"
)

func (c *CLI) List() error {
	slog.Debug("cli.list started")
	defer slog.Debug("cli.list finished")

	opts, err := c.filterOptions()
	if err != nil {
		return err
	}

	items, err := c.engine.List(opts)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("Trash is empty.")
		return nil
	}

	renderItemsTable(os.Stdout, items)
	return nil
}

func renderItemsTable(w *os.File, items []*core.Item) {
	useColor := isatty.IsTerminal(w.Fd())
	header := func(s string) string {
		if useColor {
			return color.New(color.FgHiGreen).Sprint(s)
		}
		return s
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{header("Name"), header("Original Path"), header("Deleted"), header("Size")})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)

	table.AppendBulk(lo.Map(items, func(item *core.Item, _ int) []string {
		size := humanize.Bytes(uint64(item.Size))
		if item.IsDir {
			size = "(dir)"
		}
		return []string{
			item.Name,
			item.OriginalPath,
			humanize.Time(item.DeletedAt),
			size,
		}
	}))

	table.Render()
}
