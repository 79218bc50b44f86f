package http1

import (
	"errors"
	"strconv"
)

var (
	ErrBadRequestLine   = errors.New("malformed request line")
	ErrBadProtocol      = errors.New("malformed protocol version")
	ErrBadHeader        = errors.New("malformed header line")
	ErrBadContentLength = errors.New("bad content-length value")
	ErrTrailingData     = errors.New("unexpected data after the request body")
	ErrTooLarge         = errors.New("request exceeds configured limits")
)

var (
	ErrEndTwice      = errors.New("response is already ended")
	ErrWriteAfterEnd = errors.New("write after the response was ended")
	ErrBodyMode      = errors.New("request body can be read only once, right after the headers")
)

// ProtocolError is fatal for the connection: the peer sent something we cannot parse.
// The connection is expected to close the socket
type ProtocolError struct {
	Reason error
	// Data is the offending piece of input, if any
	Data string
}

func newProtocolError(reason error, data string) *ProtocolError {
	return &ProtocolError{
		Reason: reason,
		Data:   data,
	}
}

func (p *ProtocolError) Error() string {
	if len(p.Data) == 0 {
		return "protocol error: " + p.Reason.Error()
	}

	return "protocol error: " + p.Reason.Error() + ": " + strconv.Quote(p.Data)
}

func (p *ProtocolError) Unwrap() error {
	return p.Reason
}

// UsageError reports a handler calling a verb when it must not
type UsageError struct {
	Reason error
	Verb   string
}

func (u *UsageError) Error() string {
	return "usage error: " + u.Verb + "(): " + u.Reason.Error()
}

func (u *UsageError) Unwrap() error {
	return u.Reason
}

// TransportError wraps a failure of the connection to deliver a write. The machine
// doesn't interpret it, just hands it to the write callback
type TransportError struct {
	Err error
}

func (t *TransportError) Error() string {
	return "transport error: " + t.Err.Error()
}

func (t *TransportError) Unwrap() error {
	return t.Err
}
