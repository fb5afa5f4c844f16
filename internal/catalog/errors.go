package catalog

import (
	"errors"
	"fmt"
)

// ErrInvalidNumbering indicates an episode with a season but no episode
// number, or the reverse.
var ErrInvalidNumbering = errors.New("episode numbering must set both season and episode, or neither")

// ConflictError is returned by merge hooks when two values cannot describe
// the same resource.
type ConflictError struct {
	Kind  string
	Left  string
	Right string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %q and %q are different resources", e.Kind, e.Left, e.Right)
}
