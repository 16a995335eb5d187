package errors

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorType string

func (s ErrorType) String() string {
	return strings.ToLower(string(s))
}

const (
	ErrInternalError   ErrorType = "Internal Error"
	ErrNotFound        ErrorType = "Not Found"
	ErrInvalidArgument ErrorType = "Invalid Argument"

	ErrConfigurationMissing ErrorType = "Configuration Missing"
	ErrInvalidJobConfig     ErrorType = "Invalid Job Config"
	ErrInvalidPattern       ErrorType = "Invalid Pattern"
	ErrTooManyMatches       ErrorType = "Too Many Matches"
	ErrLaunchTimeout        ErrorType = "Launch Timeout"
	ErrSchedulerCall        ErrorType = "Scheduler Call Failure"
)

type DomainError struct {
	ErrorType  ErrorType
	Entity     string
	Message    string
	WrappedErr error
}

func NewError(errType ErrorType, entity string, msg string) *DomainError {
	return &DomainError{
		Entity:     entity,
		ErrorType:  errType,
		Message:    msg,
		WrappedErr: nil,
	}
}

func InternalError(entity string, msg string, err error) *DomainError {
	return &DomainError{
		Entity:     entity,
		ErrorType:  ErrInternalError,
		Message:    msg,
		WrappedErr: err,
	}
}

func InvalidArgument(entity string, msg string) *DomainError {
	return NewError(ErrInvalidArgument, entity, msg)
}

func NotFound(entity string, msg string) *DomainError {
	return NewError(ErrNotFound, entity, msg)
}

// ConfigurationMissing is raised when a required system setting is absent.
func ConfigurationMissing(entity string, msg string) *DomainError {
	return NewError(ErrConfigurationMissing, entity, msg)
}

// InvalidJobConfig wraps the aggregated validation failures of a job config.
// The wrapped error keeps every constituent message.
func InvalidJobConfig(entity string, msg string, err error) *DomainError {
	return &DomainError{
		ErrorType:  ErrInvalidJobConfig,
		Entity:     entity,
		Message:    msg,
		WrappedErr: err,
	}
}

func InvalidPattern(entity string, msg string, err error) *DomainError {
	return &DomainError{
		ErrorType:  ErrInvalidPattern,
		Entity:     entity,
		Message:    msg,
		WrappedErr: err,
	}
}

func TooManyMatches(entity string, msg string) *DomainError {
	return NewError(ErrTooManyMatches, entity, msg)
}

func LaunchTimeout(entity string, msg string, err error) *DomainError {
	return &DomainError{
		ErrorType:  ErrLaunchTimeout,
		Entity:     entity,
		Message:    msg,
		WrappedErr: err,
	}
}

// SchedulerCallFailure marks a failed list/add/delete call. The
// underlying error is kept verbatim.
func SchedulerCallFailure(entity string, msg string, err error) *DomainError {
	return &DomainError{
		ErrorType:  ErrSchedulerCall,
		Entity:     entity,
		Message:    msg,
		WrappedErr: err,
	}
}

func (e *DomainError) Error() string {
	if e.WrappedErr != nil {
		return fmt.Sprintf("%v for entity %v: %v: %v",
			e.ErrorType.String(), e.Entity, e.Message, e.WrappedErr.Error())
	}
	return fmt.Sprintf("%v for entity %v: %v",
		e.ErrorType.String(), e.Entity, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.WrappedErr
}

// IsErrorType reports whether any DomainError in the chain of err has the given type
func IsErrorType(err error, errType ErrorType) bool {
	var de *DomainError
	for err != nil {
		if !errors.As(err, &de) {
			return false
		}
		if de.ErrorType == errType {
			return true
		}
		err = de.WrappedErr
	}
	return false
}
