package catalog

import (
	"errors"
	"fmt"
)

// Kind classifies why a catalog request failed.
type Kind int

const (
	// KindTransport covers DNS failures, refused or reset connections and
	// timeouts.
	KindTransport Kind = iota + 1
	// KindStatus is a non-2xx HTTP response.
	KindStatus
	// KindAPI is a well-formed envelope with success set to false.
	KindAPI
	// KindDecode is a body that is not the expected JSON envelope.
	KindDecode
	// KindInvalidRequest means the request was never sent.
	KindInvalidRequest
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindAPI:
		return "api"
	case KindDecode:
		return "decode"
	case KindInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// Error is returned by every Client method when a request fails. It has
// already been logged by the client.
type Error struct {
	Kind       Kind
	Endpoint   string
	StatusCode int
	// Message is the server supplied error text, if any.
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("catalog %s: %s failure", e.Endpoint, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of a catalog failure anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return 0, false
}
