package scanner

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownRoot indicates a root that is not configured.
	ErrUnknownRoot = errors.New("library root not configured")

	// ErrRootUnreadable indicates a configured root that cannot be listed.
	ErrRootUnreadable = errors.New("library root unreadable")

	// ErrRootBusy indicates a root that is already being scanned or watched.
	ErrRootBusy = errors.New("library root busy")

	// ErrPersistence wraps every failure of the repository.
	ErrPersistence = errors.New("persistence error")
)

func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
