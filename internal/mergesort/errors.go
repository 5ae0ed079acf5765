package mergesort

import "fmt"

// UnixError wraps a syscall failure (mkstemp, ftruncate, mmap, open, read)
// encountered while managing run files. It is always fatal and surfaced to
// the caller; partial state is released on Close.
type UnixError struct {
	Op    string
	Cause error
}

func (e *UnixError) Error() string {
	return fmt.Sprintf("mergesort: %s: %v", e.Op, e.Cause)
}

func (e *UnixError) Unwrap() error {
	return e.Cause
}
