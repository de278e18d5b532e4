package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/nxadm/tail"
	"github.com/suteru/suteru/internal/env"
)

// DebugLogs prints the debug log. In live mode the log is followed as new
// entries arrive, as long as stdout is a terminal.
func (c *CLI) DebugLogs(w io.Writer, live bool) error {
	if _, err := os.Stat(env.SUTERU_LOG_PATH); os.IsNotExist(err) {
		return fmt.Errorf("no log file exists yet: try running some commands first")
	}

	shouldFollow := isatty.IsTerminal(os.Stdout.Fd())
	tailConfig := tail.Config{
		ReOpen: shouldFollow && live,
		Follow: shouldFollow && live,
		Poll:   true,
		Logger: tail.DiscardingLogger,
	}
	if live {
		tailConfig.Location = &tail.SeekInfo{
			Offset: 0,
			Whence: io.SeekEnd,
		}
	}

	t, err := tail.TailFile(env.SUTERU_LOG_PATH, tailConfig)
	if err != nil {
		return err
	}
	for line := range t.Lines {
		fmt.Fprintln(w, line.Text)
	}
	return nil
}
