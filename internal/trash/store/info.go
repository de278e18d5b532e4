package store

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/suteru/suteru/internal/trash/core"
)

const (
	recordHeader = "[Trash Info]"
	recordExt    = ".trashinfo"
	timeFormat   = "2006-01-02T15:04:05"
)

// Record is the parsed contents of a metadata record. The on-disk format
// is the plain key-value text used by trash-aware tools:
//
//	[Trash Info]
//	Path=/home/user/some%20file
//	DeletionDate=2006-01-02T15:04:05
type Record struct {
	// Path is the original path. Absolute for home stores; relative to the
	// mount root for per-volume stores.
	Path string

	// DeletedAt is when the item was moved to trash.
	DeletedAt time.Time
}

// ParseRecord reads a metadata record. io.EOF on an empty reader means the
// record was reserved but never committed; callers treat that as pending.
func ParseRecord(r io.Reader) (*Record, error) {
	scanner := bufio.NewScanner(r)
	rec := &Record{}
	var headerFound, empty = false, true

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		empty = false

		if line == recordHeader {
			headerFound = true
			continue
		}
		if !headerFound {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		switch strings.TrimSpace(key) {
		case "Path":
			path, err := url.PathUnescape(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("%w: invalid Path encoding: %v", core.ErrCorruptRecord, err)
			}
			rec.Path = path

		case "DeletionDate":
			date, err := time.ParseInLocation(timeFormat, strings.TrimSpace(value), time.Local)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid DeletionDate: %v", core.ErrCorruptRecord, err)
			}
			rec.DeletedAt = date
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	if empty {
		return nil, io.EOF
	}
	if !headerFound {
		return nil, fmt.Errorf("%w: missing %s header", core.ErrCorruptRecord, recordHeader)
	}
	if rec.Path == "" {
		return nil, fmt.Errorf("%w: missing Path field", core.ErrCorruptRecord)
	}
	if rec.DeletedAt.IsZero() {
		return nil, fmt.Errorf("%w: missing DeletionDate field", core.ErrCorruptRecord)
	}

	return rec, nil
}

// Encode renders the record in its on-disk form.
func (r *Record) Encode() string {
	var b strings.Builder
	fmt.Fprintln(&b, recordHeader)
	fmt.Fprintf(&b, "Path=%s\n", encodePath(r.Path))
	fmt.Fprintf(&b, "DeletionDate=%s\n", r.DeletedAt.Format(timeFormat))
	return b.String()
}

// encodePath percent-encodes a path for a metadata record. Forward slashes
// stay literal and spaces become %20, not +.
func encodePath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		subparts := strings.Split(part, " ")
		for j, subpart := range subparts {
			subparts[j] = url.QueryEscape(subpart)
		}
		parts[i] = strings.Join(subparts, "%20")
	}
	return strings.Join(parts, "/")
}

// resolvePath turns a record path into an absolute original path, using
// the store's mount root for relative records.
func resolvePath(recorded, mountRoot string) string {
	if filepath.IsAbs(recorded) {
		return recorded
	}
	if mountRoot != "" {
		return filepath.Join(mountRoot, recorded)
	}
	return recorded
}

// relativePath converts an absolute original path into the record form for
// a store anchored at mountRoot. Home stores (empty mountRoot) record
// absolute paths.
func relativePath(abs, mountRoot string) string {
	if mountRoot == "" || !filepath.IsAbs(abs) {
		return abs
	}
	rel, err := filepath.Rel(mountRoot, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return abs
	}
	return rel
}

// loadRecord opens and parses a metadata record file.
func loadRecord(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open record: %w", err)
	}
	defer f.Close()
	return ParseRecord(f)
}
