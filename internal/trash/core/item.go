// Package core holds the types shared between the trash engine and its
// storage, naming and volume-resolution components.
package core

import (
	"io/fs"
	"os"
	"time"
)

// Item represents one trashed file or directory.
type Item struct {
	// Name is the collision-resolved entry name within its store. It is
	// unique among the store's payloads and metadata records.
	Name string

	// OriginalPath is the absolute path the item had when it was trashed.
	OriginalPath string

	// TrashPath is the absolute path of the preserved payload inside the
	// store's files directory.
	TrashPath string

	// InfoPath is the absolute path of the metadata record.
	InfoPath string

	// DeletedAt is when the item was moved to trash.
	DeletedAt time.Time

	// Size is the size of the payload in bytes. For directories this is
	// the size reported by stat, not a recursive total.
	Size int64

	// IsDir indicates whether the payload is a directory.
	IsDir bool

	// Mode is the payload's file mode at listing time.
	Mode fs.FileMode
}

// Exists reports whether the payload is still present in the trash.
func (i *Item) Exists() bool {
	_, err := os.Lstat(i.TrashPath)
	return err == nil
}

// GetName implements Filterable.
func (i *Item) GetName() string { return i.Name }

// GetPath implements Filterable.
func (i *Item) GetPath() string { return i.TrashPath }

// GetOriginalPath implements Filterable.
func (i *Item) GetOriginalPath() string { return i.OriginalPath }

// GetDeletedAt implements Filterable.
func (i *Item) GetDeletedAt() time.Time { return i.DeletedAt }
