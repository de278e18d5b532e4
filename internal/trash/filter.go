package trash

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/gobwas/glob"
	"github.com/k1LoW/duration"
	"github.com/suteru/suteru/internal/fs"
)

// Filterable defines what trashed items must expose to be filtered.
type Filterable interface {
	// GetName returns the entry name within its store
	GetName() string
	// GetPath returns the payload path in trash
	GetPath() string
	// GetOriginalPath returns the absolute path at deletion time
	GetOriginalPath() string
	// GetDeletedAt returns when the item was trashed
	GetDeletedAt() time.Time
}

// FilterOptions holds the selection criteria for List and Purge.
type FilterOptions struct {
	// Glob matches against the original path (patterns containing a
	// separator) or the entry name (patterns without one).
	Glob string

	// OlderThan keeps items deleted at least this long ago.
	OlderThan time.Duration

	// NewerThan keeps items deleted no longer than this ago.
	NewerThan time.Duration

	// SizeMin/SizeMax are human-readable payload size bounds ("1KB").
	SizeMin string
	SizeMax string

	// Exclusion rules, typically sourced from the config file.
	ExcludeFiles    []string
	ExcludePatterns []string
	ExcludeGlobs    []string
}

// IsZero reports whether no criterion is set.
func (o FilterOptions) IsZero() bool {
	return o.Glob == "" && o.OlderThan == 0 && o.NewerThan == 0 &&
		o.SizeMin == "" && o.SizeMax == "" &&
		len(o.ExcludeFiles) == 0 && len(o.ExcludePatterns) == 0 && len(o.ExcludeGlobs) == 0
}

// ParseAge parses a human age spec like "30d", "2 weeks" or "1 year".
func ParseAge(s string) (time.Duration, error) {
	return duration.Parse(s)
}

// Filter applies the selection criteria to items.
func Filter[T Filterable](items []T, opts FilterOptions) []T {
	items = selectByGlob(items, opts.Glob)
	items = selectByAge(items, opts.OlderThan, opts.NewerThan)
	items = rejectByNames(items, opts.ExcludeFiles)
	items = rejectByPatterns(items, opts.ExcludePatterns)
	items = rejectByGlobs(items, opts.ExcludeGlobs)
	items = selectBySize(items, opts.SizeMin, opts.SizeMax, fs.DirSize)
	return items
}

func selectByGlob[T Filterable](items []T, pattern string) []T {
	if pattern == "" {
		return items
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		slog.Warn("invalid glob pattern, ignoring", "pattern", pattern, "error", err)
		return items
	}
	byPath := strings.ContainsRune(pattern, '/')

	var filtered []T
	for _, item := range items {
		subject := item.GetName()
		if byPath {
			subject = item.GetOriginalPath()
		}
		if g.Match(subject) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func selectByAge[T Filterable](items []T, olderThan, newerThan time.Duration) []T {
	if olderThan == 0 && newerThan == 0 {
		return items
	}

	var filtered []T
	for _, item := range items {
		age := time.Since(item.GetDeletedAt())
		if olderThan > 0 && age < olderThan {
			continue
		}
		if newerThan > 0 && age > newerThan {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func rejectByNames[T Filterable](items []T, excludeFiles []string) []T {
	if len(excludeFiles) == 0 {
		return items
	}

	var filtered []T
	for _, item := range items {
		excluded := false
		for _, exclude := range excludeFiles {
			if item.GetName() == exclude {
				excluded = true
				break
			}
		}
		if !excluded {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func rejectByPatterns[T Filterable](items []T, patterns []string) []T {
	if len(patterns) == 0 {
		return items
	}

	var filtered []T
	for _, item := range items {
		excluded := false
		for _, pattern := range patterns {
			if matched, err := regexp.MatchString(pattern, item.GetName()); err == nil && matched {
				excluded = true
				break
			}
		}
		if !excluded {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func rejectByGlobs[T Filterable](items []T, globs []string) []T {
	if len(globs) == 0 {
		return items
	}

	var filtered []T
	for _, item := range items {
		excluded := false
		for _, g := range globs {
			compiled, err := glob.Compile(g)
			if err != nil {
				continue
			}
			if compiled.Match(item.GetName()) {
				excluded = true
				break
			}
		}
		if !excluded {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// selectBySize takes the size function as a parameter so tests can stub
// payload sizing.
func selectBySize[T Filterable](items []T, minSpec, maxSpec string, sizeFn func(string) (int64, error)) []T {
	if minSpec == "" && maxSpec == "" {
		return items
	}

	var filtered []T
	for _, item := range items {
		size, err := sizeFn(item.GetPath())
		if err != nil {
			continue // skip items we cannot size
		}

		include := true
		if minSpec != "" {
			if min, err := units.FromHumanSize(minSpec); err == nil && size < min {
				include = false
			}
		}
		if maxSpec != "" {
			if max, err := units.FromHumanSize(maxSpec); err == nil && size > max {
				include = false
			}
		}
		if include {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
