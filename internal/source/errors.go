package source

import (
	"context"
	"errors"
	"net"
	"strings"
)

// ErrorCategory represents the classification of source failures for telemetry
type ErrorCategory int

const (
	// ErrCategoryNetwork indicates transport failures (dial, DNS, reset, timeout)
	ErrCategoryNetwork ErrorCategory = iota
	// ErrCategoryAuth indicates the remote end rejected our credentials
	ErrCategoryAuth
	// ErrCategoryProtocol indicates a malformed or unexpected stream
	ErrCategoryProtocol
	// ErrCategoryUnknown indicates unclassified errors
	ErrCategoryUnknown
)

// String returns a human-readable string representation of the error category
func (e ErrorCategory) String() string {
	switch e {
	case ErrCategoryNetwork:
		return "network"
	case ErrCategoryAuth:
		return "auth"
	case ErrCategoryProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// Error is a classified, fatal source failure.
type Error struct {
	Category ErrorCategory
	Op       string // "dial", "login", "receive", …
	Err      error
}

func (e *Error) Error() string {
	return "source: " + e.Op + " [" + e.Category.String() + "]: " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap classifies err and tags it with op. Nil stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Category: Classify(err), Op: op, Err: err}
}

// Classify categorizes a failure for telemetry.
//
// Typed errors win; message heuristics are the fallback, same approach as
// the keyword matching used for pipeline errors.
func Classify(err error) ErrorCategory {
	if err == nil {
		return ErrCategoryUnknown
	}

	var se *Error
	if errors.As(err, &se) {
		return se.Category
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return ErrCategoryNetwork
	}

	msg := strings.ToLower(err.Error())

	// Priority 1: auth (most specific)
	if containsAny(msg, authKeywords) {
		return ErrCategoryAuth
	}

	// Priority 2: protocol
	if containsAny(msg, protocolKeywords) {
		return ErrCategoryProtocol
	}

	// Priority 3: network (most common)
	if containsAny(msg, networkKeywords) {
		return ErrCategoryNetwork
	}

	return ErrCategoryUnknown
}

var (
	authKeywords = []string{
		"authentication failed",
		"improperly formatted auth",
		"login unsuccessful",
		"unauthorized",
		"401",
		"403",
		"forbidden",
	}

	protocolKeywords = []string{
		"bad handshake",
		"malformed",
		"invalid utf-8",
		"protocol error",
	}

	networkKeywords = []string{
		"connection",
		"timeout",
		"unreachable",
		"no such host",
		"broken pipe",
		"eof",
		"close 1006",
	}
)

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
