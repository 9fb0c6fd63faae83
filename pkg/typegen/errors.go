package typegen

import "fmt"

// ResolutionError reports a reference that could not be resolved, together
// with the declaration and property path that referenced it.
type ResolutionError struct {
	Ref  string
	Path string
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("cannot resolve %q: %v", e.Ref, e.Err)
	}
	return fmt.Sprintf("cannot resolve %q referenced from %s: %v", e.Ref, e.Path, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
