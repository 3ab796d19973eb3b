package validation

import (
	"sort"
	"strings"
)

// Error carries field-level validation messages, keyed by JSON field name.
type Error struct {
	Details map[string][]string
}

// NewError returns an empty Error.
func NewError() *Error {
	return &Error{Details: make(map[string][]string)}
}

// Add appends msg to field.
func (e *Error) Add(field, msg string) {
	if e.Details == nil {
		e.Details = make(map[string][]string)
	}
	e.Details[field] = append(e.Details[field], msg)
}

// Empty reports whether no messages were added.
func (e *Error) Empty() bool {
	return e == nil || len(e.Details) == 0
}

// OrNil returns e as an error, or nil when it holds no messages.
func (e *Error) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Details))
	for f := range e.Details {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}
