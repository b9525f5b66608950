package backend

import (
	"errors"
	"fmt"
)

// Kind classifies a failed backend call
type Kind int

const (
	// KindTransport covers network-level failures (refused, DNS, reset)
	KindTransport Kind = iota
	// KindTimeout is a call abandoned because its deadline passed
	KindTimeout
	// KindRejected is a well-formed response with success=false
	KindRejected
	// KindDecode is a response that could not be parsed
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindRejected:
		return "rejected"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the normalized failure returned by every Client operation.
// Callers branch on Kind, never on message text.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *Error) Unwrap() error { return e.Err }

// Reason returns the user-facing failure text: the server's reason for a
// rejection, a synthesized message otherwise.
func (e *Error) Reason() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String() + " error"
}

// ErrKind reports the Kind of err if it is a backend Error
func ErrKind(err error) (Kind, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return 0, false
}

// IsTimeout reports whether err is a backend timeout
func IsTimeout(err error) bool {
	k, ok := ErrKind(err)
	return ok && k == KindTimeout
}

// ErrReason returns the user-facing text for err
func ErrReason(err error) string {
	var be *Error
	if errors.As(err, &be) {
		return be.Reason()
	}
	return err.Error()
}
