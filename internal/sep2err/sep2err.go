// Package sep2err implements the error taxonomy shared by every sep2go
// component: configuration, transport, protocol, decode, and certificate
// policy errors, each a thin wrapper so callers can use errors.As instead
// of matching on message text, following the wrap-with-Unwrap shape used
// throughout this module.
package sep2err

import "fmt"

// Kind classifies why a sep2go operation failed.
type Kind int

const (
	Config Kind = iota
	Transport
	Protocol
	Decode
	CertPolicy
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "configuration"
	case Transport:
		return "transport"
	case Protocol:
		return "protocol"
	case Decode:
		return "decode"
	case CertPolicy:
		return "certificate-policy"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind, preserving the original
// error for errors.As/errors.Is while keeping Error() text under the
// caller's control via msg.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, msg: msg, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		if e.msg == "" {
			return e.err.Error()
		}
		return fmt.Sprintf("%s: %s", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

// Is reports whether err is a *Error of the given Kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if se, ok := err.(*Error); ok {
			if se.Kind == kind {
				return true
			}
			err = se.err
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
