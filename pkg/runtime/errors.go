package runtime

import "fmt"

// RuntimeError is the single evaluation failure kind. It halts evaluation at
// the innermost point of failure and propagates unchanged to the caller.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RuntimeError: %s", e.Message)
}

// Errorf builds a RuntimeError from a format string.
func Errorf(format string, args ...any) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}
