package apperrors

import (
	"errors"
	"strings"
)

// appError is the concrete Error implementation. Derived errors keep a
// pointer to their base so errors.Is can walk the chain, and carry any
// additional wrapped causes attached via Err or MsgErr.
type appError struct {
	msg           string
	base          error
	wrappedErrors []error
	statuscode    int
	expandError   bool
}

// New creates a root-level error with the given message.
func New(msg string) Error {
	return &appError{
		msg: msg,
	}
}

func (e *appError) Error() string {
	return e.msg
}

// ErrorAll returns the message followed by all wrapped causes when
// expandError is set; otherwise it is equivalent to Error().
func (e *appError) ErrorAll() string {
	if !e.expandError {
		return e.Error()
	}
	var b strings.Builder
	b.WriteString(e.Error())
	for _, err := range e.wrappedErrors {
		b.WriteString("; ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *appError) Unwrap() error {
	return e.base
}

// New derives a fresh error using the current error as its base. The derived
// error inherits the status code but starts with a clean cause list.
func (e *appError) New(msg string) Error {
	return &appError{
		msg:        msg,
		base:       e,
		statuscode: e.statuscode,
	}
}

// Msg creates a new error with a new message that wraps the original.
func (e *appError) Msg(msg string) Error {
	return &appError{
		msg:           msg,
		base:          e,
		wrappedErrors: append([]error{e}, e.wrappedErrors...),
		statuscode:    e.statuscode,
		expandError:   e.expandError,
	}
}

// MsgErr creates a new error with a message and additional wrapped causes.
func (e *appError) MsgErr(msg string, errs ...error) Error {
	all := append([]error{e}, errs...)
	return &appError{
		msg:           msg,
		base:          e,
		wrappedErrors: all,
		statuscode:    e.statuscode,
		expandError:   e.expandError,
	}
}

// Err attaches additional causes to the current error, keeping its message.
func (e *appError) Err(errs ...error) Error {
	all := append([]error{e}, errs...)
	return &appError{
		msg:           e.msg,
		base:          e,
		wrappedErrors: all,
		statuscode:    e.statuscode,
		expandError:   e.expandError,
	}
}

// SetExpandError returns a shallow copy with an updated expansion flag.
func (e *appError) SetExpandError(flag bool) Error {
	cp := *e
	cp.expandError = flag
	return &cp
}

// SetStatusCode returns a shallow copy with an updated status code.
func (e *appError) SetStatusCode(code int) Error {
	cp := *e
	cp.statuscode = code
	return &cp
}

func (e *appError) StatusCode() int {
	return e.statuscode
}

// Is matches the target against the base chain and every wrapped cause.
func (e *appError) Is(target error) bool {
	if target == nil {
		return false
	}
	if errors.Is(e.base, target) {
		return true
	}
	for _, err := range e.wrappedErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
