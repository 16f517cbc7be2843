package validation

import "fmt"

// Error reports a malformed or unparseable caller-supplied value.
// No mutation is attempted once one is raised.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid value for %q: %s", e.Field, e.Reason)
}

func Errorf(field, format string, args ...interface{}) *Error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}
