package errors

import (
	"fmt"
)

const (
	KErrNoPendingRequest uint32 = iota + 1
	KErrConnectionClosed
	KErrConnectionDesync
	KErrRequestTimeout
	KErrNotConnected
)

var (
	ErrNoPendingRequest = &Error{what: "no pending request on channel", errno: KErrNoPendingRequest}
	ErrConnectionClosed = &Error{what: "connection closed", errno: KErrConnectionClosed}
	ErrConnectionDesync = &Error{what: "connection desynchronized", errno: KErrConnectionDesync}
	ErrRequestTimeout   = &Error{what: "request timeout", errno: KErrRequestTimeout}
	ErrNotConnected     = &Error{what: "not connected", errno: KErrNotConnected}
)

type Error struct {
	what  string
	errno uint32
}

func NewError(what string, errno uint32) *Error {
	return &Error{what: what, errno: errno}
}

func (e *Error) Error() string {
	return fmt.Sprintf("error: %s (%d) ", e.what, e.errno)
}

func (e *Error) ErrNo() uint32 {
	return e.errno
}

// Is makes errors.Is match any *Error carrying the same errno, so a wrapped
// copy with more context still compares equal to the sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.errno == e.errno
}

// Wrap returns a copy of e with extra context appended to its text.
func (e *Error) Wrap(format string, args ...interface{}) *Error {
	return &Error{what: e.what + ": " + fmt.Sprintf(format, args...), errno: e.errno}
}
