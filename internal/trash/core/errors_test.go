package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestStorageError(t *testing.T) {
	err := NewStorageError("put", "/tmp/file", ErrPermissionDenied)

	if got, want := err.Error(), "put /tmp/file: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrPermissionDenied) {
		t.Error("wrapped sentinel not reachable through Unwrap")
	}

	bare := NewStorageError("list", "", ErrNotFound)
	if got, want := bare.Error(), "list: not found"; got != want {
		t.Errorf("Error() without path = %q, want %q", got, want)
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name  string
		check func(error) bool
		err   error
	}{
		{"not found", IsNotFound, ErrNotFound},
		{"permission denied", IsPermissionDenied, ErrPermissionDenied},
		{"name taken", IsNameTaken, ErrNameTaken},
		{"name exhausted", IsNameExhausted, ErrNameExhausted},
		{"destination exists", IsDestinationExists, ErrDestinationExists},
		{"move failed", IsMoveFailed, ErrMoveFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Error("helper rejects its own sentinel")
			}
			if !tt.check(fmt.Errorf("context: %w", tt.err)) {
				t.Error("helper does not see through %w wrapping")
			}
			if !tt.check(NewStorageError("op", "/p", tt.err)) {
				t.Error("helper does not see through StorageError")
			}
			if tt.check(errors.New("unrelated")) {
				t.Error("helper matches an unrelated error")
			}
		})
	}
}
