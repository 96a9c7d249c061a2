// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by someone
// else, while ErrSlotTaken signals that a booking slot is already
// occupied.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrUserExists is returned when registration collides with an
// existing username or email. Handlers translate this into 409.
var ErrUserExists = errors.New("user already exists")

// ErrSlugExists is returned when a venue insert or update collides
// with an existing slug. The caller resolves the collision by
// suffixing a counter and retrying.
var ErrSlugExists = errors.New("slug already exists")

// ErrSlotTaken is returned when a booking insert violates the
// unique (venue, date, time) constraint. Handlers translate this
// into the slot conflict response.
var ErrSlotTaken = errors.New("slot already booked")

// isDuplicate reports whether err is a MySQL duplicate key error (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
