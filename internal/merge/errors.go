package merge

import "fmt"

// Hook lets a nested value take over its own merge, typically to refuse
// combining two values that describe different things.
type Hook[V any] interface {
	OnMerge(other *V) error
}

// HookError reports a failed merge hook.
// The record being merged must be considered invalid.
type HookError struct {
	Field string
	Err   error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("merge field %s: %v", e.Field, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}
