package operation

import "fmt"

// Error reports an operation whose parameters or responses could not be
// typed. Status or Parameter names the failing element.
type Error struct {
	Operation string
	Status    string
	Parameter string
	Err       error
}

func (e *Error) Error() string {
	switch {
	case e.Status != "":
		return fmt.Sprintf("operation %s: response %s: %v", e.Operation, e.Status, e.Err)
	case e.Parameter != "":
		return fmt.Sprintf("operation %s: parameter %s: %v", e.Operation, e.Parameter, e.Err)
	}
	return fmt.Sprintf("operation %s: %v", e.Operation, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
