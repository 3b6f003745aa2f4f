package transport

import "errors"

// Kind classifies a transport failure. It is informational; callers show
// Error() to users and should not branch on much else.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindStatus
	KindEmptyBody
	KindEncode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindEmptyBody:
		return "empty_body"
	case KindEncode:
		return "encode"
	default:
		return "unknown"
	}
}

// ErrEmptyBody is the cause of a KindEmptyBody failure.
var ErrEmptyBody = errors.New("response body is empty")

// Error is the single shape every transport failure takes.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }
