package core

import "errors"

// Sentinel errors returned by the engine and its components.
var (
	// ErrNotFound is returned when a source path or trashed item is missing
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied is returned when permission is denied for an operation
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnresolvableVolume is returned when a path cannot be mapped to a
	// mounted filesystem
	ErrUnresolvableVolume = errors.New("cannot resolve volume")

	// ErrNameTaken is returned when a metadata record with the proposed
	// name already exists in the store
	ErrNameTaken = errors.New("name already taken")

	// ErrNameExhausted is returned when all collision candidates are taken
	ErrNameExhausted = errors.New("entry name candidates exhausted")

	// ErrMoveFailed is returned when a payload rename or copy fails
	ErrMoveFailed = errors.New("move failed")

	// ErrDestinationExists is returned when a restore would overwrite an
	// existing file
	ErrDestinationExists = errors.New("destination already exists")

	// ErrCorruptRecord is returned when a metadata record cannot be parsed
	ErrCorruptRecord = errors.New("corrupt metadata record")

	// ErrOrphaned is returned when only one half of an item (payload or
	// metadata) exists on disk
	ErrOrphaned = errors.New("orphaned trash entry")

	// ErrCrossDevice is returned when a cross-device move is required but
	// the configured policy forbids it
	ErrCrossDevice = errors.New("cross-device move not permitted")
)

// StorageError wraps an error with context about the failed operation.
type StorageError struct {
	// Op is the operation that failed (e.g., "put", "restore", "purge")
	Op string

	// Path is the path involved in the failure
	Path string

	// Err is the underlying error
	Err error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError.
func NewStorageError(op, path string, err error) error {
	return &StorageError{Op: op, Path: path, Err: err}
}

// IsNotFound returns true if the error is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPermissionDenied returns true if the error is ErrPermissionDenied.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsNameTaken returns true if the error is ErrNameTaken.
func IsNameTaken(err error) bool {
	return errors.Is(err, ErrNameTaken)
}

// IsNameExhausted returns true if the error is ErrNameExhausted.
func IsNameExhausted(err error) bool {
	return errors.Is(err, ErrNameExhausted)
}

// IsDestinationExists returns true if the error is ErrDestinationExists.
func IsDestinationExists(err error) bool {
	return errors.Is(err, ErrDestinationExists)
}

// IsMoveFailed returns true if the error is ErrMoveFailed.
func IsMoveFailed(err error) bool {
	return errors.Is(err, ErrMoveFailed)
}
