package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed call.
type Kind string

const (
	KindTimeout    Kind = "timeout"
	KindConnection Kind = "connection"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
	KindRateLimit  Kind = "rate_limit"
	// KindRejected is any other 4xx, or a request that could not be built.
	KindRejected Kind = "rejected"
	KindServer   Kind = "server"
	KindDecode   Kind = "decode"
)

// Error is returned for every failed call. Status is 0 when no response
// arrived.
type Error struct {
	Kind     Kind
	Upstream string
	Status   int
	Body     []byte
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Upstream, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// kindForStatus maps a response status to a Kind, "" for 2xx.
func kindForStatus(status int) Kind {
	switch {
	case status >= 200 && status < 300:
		return ""
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status >= 400 && status < 500:
		return KindRejected
	default:
		return KindServer
	}
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsTimeout reports whether the call ran out of time.
func IsTimeout(err error) bool { return KindOf(err) == KindTimeout }

// IsNotFound reports whether the upstream answered 404.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsRejected reports whether the upstream refused the request as malformed.
func IsRejected(err error) bool { return KindOf(err) == KindRejected }
