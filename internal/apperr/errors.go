package apperr

import "fmt"

// ValidationError marks caller mistakes that should map to a 400 response.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// NotFoundError marks lookups of resources that do not exist or are not
// visible to the caller (e.g. an unpublished article on a public path).
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NewNotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// TransientError marks infrastructure failures (store unavailable, timeout).
// Callers must surface these rather than degrade to an empty result, so that
// "nothing matched" stays distinguishable from "ranking is unavailable".
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
	}
	return e.Op
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func NewTransient(op string, err error) *TransientError {
	return &TransientError{Op: op, Err: err}
}
