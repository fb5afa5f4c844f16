package identify

import (
	"errors"
	"fmt"
)

// ErrIdentificationFailed indicates a path that no library root or pattern
// could make sense of. The file should be skipped.
var ErrIdentificationFailed = errors.New("identification failed")

// Error describes why a path could not be identified.
type Error struct {
	Path   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("identify %s: %s", e.Path, e.Reason)
}

func (e *Error) Is(target error) bool {
	return target == ErrIdentificationFailed
}

func failed(path, format string, args ...any) error {
	return &Error{Path: path, Reason: fmt.Sprintf(format, args...)}
}
