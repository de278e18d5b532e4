package store

import (
	"fmt"

	"github.com/suteru/suteru/internal/trash/core"
)

// maxNameAttempts bounds the collision retry loop. Exhausting it surfaces
// ErrNameExhausted rather than spinning forever.
const maxNameAttempts = 100

// candidate returns the n-th naming candidate for base: the base name
// itself, then base.1, base.2, and so on.
func candidate(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s.%d", base, n)
}

// ReserveUnique claims a collision-free name derived from base. The
// candidate sequence is advisory; each claim is the store's atomic
// create-if-absent reservation, so concurrent processes racing on the
// same base name settle on distinct entries.
func (s *Store) ReserveUnique(base string) (*Reservation, error) {
	for n := 0; n < maxNameAttempts; n++ {
		res, err := s.Reserve(candidate(base, n))
		if err == nil {
			return res, nil
		}
		if !core.IsNameTaken(err) {
			return nil, err
		}
	}
	return nil, core.NewStorageError("reserve", base, core.ErrNameExhausted)
}
