// Package status carries the unified result taxonomy used across the core
// runtime: every fallible operation returns a Code (or an error wrapping
// one) instead of panicking.
package status

import "fmt"

// Code is one of the eight result kinds every component reports.
type Code int

const (
	// Ok indicates success.
	Ok Code = iota
	// InvalidParameters indicates a null or out-of-range argument.
	InvalidParameters
	// InvalidState indicates the operation is not legal in the current
	// state (stopped manager, double-activated session, tombstone-less
	// remove).
	InvalidState
	// OutOfMemory indicates an allocation failure.
	OutOfMemory
	// WouldBlock indicates a non-blocking dequeue on an empty queue, or a
	// non-blocking I/O call that has no data ready.
	WouldBlock
	// Closed indicates the peer closed the transport.
	Closed
	// Nok is the catch-all for protocol or local failures.
	Nok
	// NotSupported indicates a feature stubbed out on the current platform.
	NotSupported
)

func (c Code) String() string {
	switch c {
	case Ok:
		return "Ok"
	case InvalidParameters:
		return "InvalidParameters"
	case InvalidState:
		return "InvalidState"
	case OutOfMemory:
		return "OutOfMemory"
	case WouldBlock:
		return "WouldBlock"
	case Closed:
		return "Closed"
	case Nok:
		return "Nok"
	case NotSupported:
		return "NotSupported"
	default:
		return "Unknown"
	}
}

// Error wraps a Code with an optional cause and component context. It
// satisfies the standard error interface so callers can use errors.Is /
// errors.As / %w as usual, while still exposing the discrete Code for
// callers that need to branch on it (e.g. service adapters translating to
// an OPC UA StatusCode on the wire).
type Error struct {
	Code  Code
	Op    string // component/operation that produced the error, e.g. "dict.Insert"
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error with no underlying cause.
func New(op string, code Code) *Error {
	return &Error{Op: op, Code: code}
}

// Wrap builds an *Error around an existing cause.
func Wrap(op string, code Code, cause error) *Error {
	return &Error{Op: op, Code: code, Cause: cause}
}

// CodeOf extracts the Code from err if it is (or wraps) a *Error, otherwise
// returns Nok for any non-nil error and Ok for nil.
func CodeOf(err error) Code {
	if err == nil {
		return Ok
	}
	var se *Error
	if ok := asStatusError(err, &se); ok {
		return se.Code
	}
	return Nok
}

func asStatusError(err error, target **Error) bool {
	for err != nil {
		if se, ok := err.(*Error); ok {
			*target = se
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
