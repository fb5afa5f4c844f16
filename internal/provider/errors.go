package provider

import (
	"errors"
	"fmt"
)

// ErrProviderTimeout indicates a provider call that exceeded its timeout.
var ErrProviderTimeout = errors.New("provider timed out")

// ProviderError records a failed provider call. Provider failures never
// fail a gateway call; they are reported alongside the result.
type ProviderError struct {
	Provider string
	Op       string // "get" or "search"
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the call failed because of its timeout.
func (e *ProviderError) Timeout() bool {
	return errors.Is(e.Err, ErrProviderTimeout)
}
