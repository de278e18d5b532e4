// Package cli is the thin front end over the trash engine: flag parsing,
// confirmation prompts and output rendering. The engine itself never
// writes to the terminal.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jessevdk/go-flags"
	"github.com/rs/xid"
	"github.com/suteru/suteru/internal/config"
	"github.com/suteru/suteru/internal/env"
	"github.com/suteru/suteru/internal/trash"
	"github.com/suteru/suteru/internal/trash/core"
)

type Option struct {
	Restore bool   `short:"b" long:"restore" description:"Restore a trashed file to its original location"`
	List    bool   `short:"l" long:"list" description:"List trashed files"`
	Purge   bool   `long:"purge" description:"Permanently delete trashed files (irreversible)"`
	Prune   string `long:"prune" description:"Clean up trash internals (e.g., orphans)" optional-value:"orphans" optional:"yes" choice:"orphans"`
	To      string `long:"to" description:"Alternative destination for restore" value-name:"DIR"`
	Config  string `long:"config" description:"Path to config file" default:""`

	Filter FilterOption `group:"Filter Options"`
	Meta   MetaOption   `group:"Meta Options"`
	Rm     RmOption     `group:"Compatible (rm) Options"`
}

type FilterOption struct {
	Glob    string `short:"g" long:"glob" description:"Select items whose name or original path matches a glob" value-name:"PATTERN"`
	Older   string `long:"older" description:"Select items trashed at least this long ago (e.g. 30d)" value-name:"AGE"`
	Newer   string `long:"newer" description:"Select items trashed no longer than this ago" value-name:"AGE"`
	SizeMin string `long:"size-min" description:"Select items at least this large (e.g. 1MB)" value-name:"SIZE"`
	SizeMax string `long:"size-max" description:"Select items at most this large" value-name:"SIZE"`
	Empty   bool   `long:"empty" description:"Select everything (purge only)"`
}

type MetaOption struct {
	Version bool   `short:"V" long:"version" description:"Show version"`
	Debug   string `long:"debug" description:"View debug logs (default: \"full\")" optional-value:"full" optional:"yes" choice:"full" choice:"live"`
}

// RmOption provides compatibility with rm command options
type RmOption struct {
	Interactive bool `short:"i" description:"(dummy) prompt before every removal"`
	Recursive   bool `short:"r" long:"recursive" description:"(dummy) remove directories and their contents recursively"`
	Recursive2  bool `short:"R" description:"(dummy) same as -r"`
	Force       bool `short:"f" long:"force" description:"ignore nonexistent files, never prompt"`
	Directory   bool `short:"d" long:"dir" description:"(dummy) remove empty directories"`
	Verbose     bool `short:"v" long:"verbose" description:"explain what is being done"`
}

type CLI struct {
	version Version
	option  Option
	config  config.Config
	runID   string
	engine  *trash.Engine
}

var runID = sync.OnceValue(func() string {
	return xid.New().String()
})

func Run(v Version) error {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Name = v.AppName
	parser.Usage = "[-b | -l | --purge | files...]"
	args, err := parser.Parse()
	if err != nil {
		if flags.WroteHelp(err) {
			return nil
		}
		return err
	}

	cfg, err := config.Parse(opt.Config)
	if err != nil {
		return err
	}

	if err := setupLogger(cfg.Core.Logging); err != nil {
		return err
	}

	defer slog.Debug("main function finished\n\n\n")
	slog.Debug("main function started", "version", v.Version, "revision", v.Revision, "buildDate", v.BuildDate)

	engine, err := trash.New(&core.Config{
		HomeTrashDir: cfg.Core.TrashDir,
		HomeFallback: cfg.Core.HomeFallback,
		CrossDevice:  core.CrossDevicePolicy(cfg.Core.CrossDevice),
		RunID:        runID(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize trash engine: %w", err)
	}

	cli := CLI{
		version: v,
		option:  opt,
		config:  cfg,
		runID:   runID(),
		engine:  engine,
	}

	if err := cli.Run(args); err != nil {
		slog.Error("exit", "error", fmt.Errorf("cli.run failed: %w", err))
		return err
	}
	return nil
}

func (c CLI) Run(args []string) error {
	switch {
	case c.option.Meta.Version:
		fmt.Fprint(os.Stdout, c.version.Print())
		return nil

	case c.option.Meta.Debug != "":
		return c.DebugLogs(os.Stdout, c.option.Meta.Debug == "live")

	case c.option.Restore:
		return c.Restore(args)

	case c.option.List:
		return c.List()

	case c.option.Purge:
		return c.Purge(args)

	case c.option.Prune != "":
		return c.Prune(c.option.Prune)

	default:
		return c.Put(args)
	}
}

// filterOptions merges the config file's exclusion rules with the
// command-line selection flags.
func (c CLI) filterOptions() (trash.FilterOptions, error) {
	opts := trash.FilterOptions{
		Glob:            c.option.Filter.Glob,
		SizeMin:         c.option.Filter.SizeMin,
		SizeMax:         c.option.Filter.SizeMax,
		ExcludeFiles:    c.config.Filter.Exclude.Files,
		ExcludePatterns: c.config.Filter.Exclude.Patterns,
		ExcludeGlobs:    c.config.Filter.Exclude.Globs,
	}

	// Config-side size bounds apply unless overridden on the command line.
	if opts.SizeMin == "" {
		opts.SizeMin = c.config.Filter.Exclude.Size.Min
	}
	if opts.SizeMax == "" {
		opts.SizeMax = c.config.Filter.Exclude.Size.Max
	}

	if s := c.option.Filter.Older; s != "" {
		d, err := trash.ParseAge(s)
		if err != nil {
			return opts, fmt.Errorf("invalid --older value %q: %w", s, err)
		}
		opts.OlderThan = d
	}

	switch {
	case c.option.Filter.Newer != "":
		d, err := trash.ParseAge(c.option.Filter.Newer)
		if err != nil {
			return opts, fmt.Errorf("invalid --newer value %q: %w", c.option.Filter.Newer, err)
		}
		opts.NewerThan = d
	case c.config.Filter.Include.Period > 0 && opts.OlderThan == 0:
		opts.NewerThan = time.Duration(c.config.Filter.Include.Period) * 24 * time.Hour
	}

	return opts, nil
}

func setupLogger(lc config.Logging) error {
	if !lc.Enabled {
		slog.SetDefault(slog.New(log.New(io.Discard)))
		return nil
	}

	logDir := filepath.Dir(env.SUTERU_LOG_PATH)
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return err
		}
	}

	var w io.Writer
	if file, err := os.OpenFile(env.SUTERU_LOG_PATH, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		w = file
	} else {
		w = os.Stderr
	}

	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           level,
	})
	logger = logger.With("run_id", runID())
	slog.SetDefault(slog.New(logger))
	return nil
}
