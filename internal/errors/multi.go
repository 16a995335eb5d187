package errors

import (
	"errors"
	"strings"
)

type MultiError struct {
	msg    string
	errors []error
}

func NewMultiError(msg string) *MultiError {
	return &MultiError{
		msg: msg,
	}
}

func (m *MultiError) Append(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// Errors returns the collected errors in the order they were appended
func (m *MultiError) Errors() []error {
	return m.errors
}

func (m *MultiError) Len() int {
	return len(m.errors)
}

func IsEmptyError(err error) bool {
	var me *MultiError
	if errors.As(err, &me) {
		return len(me.errors) == 0
	}
	return false
}

// MultiToError returns nil for a nil or empty MultiError, err otherwise
func MultiToError(err error) error {
	if err == nil {
		return nil
	}
	if IsEmptyError(err) {
		return nil
	}
	return err
}

func (m *MultiError) Error() string {
	msgs := make([]string, len(m.errors))
	for i, err := range m.errors {
		msgs[i] = err.Error()
	}
	return m.msg + ":\n" + strings.Join(msgs, "\n")
}
