package store

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update collides with a
// uniqueness constraint (email, google id, or an event/user pair).
var ErrDuplicate = errors.New("duplicate key")

const uniqueViolationCode = "23505"

// translateError maps driver errors onto the store's sentinel errors.
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return ErrDuplicate
	}
	return err
}
