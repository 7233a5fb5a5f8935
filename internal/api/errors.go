// Package api implements the client for the remote teaser service. It issues
// the six workflow requests, normalizes transport and status failures into a
// uniform error classification, and validates success responses against the
// expected shape so no caller ever inspects raw HTTP status codes.
package api

import (
	"errors"
	"fmt"
)

// Kind classifies a request failure by cause.
type Kind int

const (
	// KindValidation means the client or server rejected the input shape or
	// content; recoverable by editing the input.
	KindValidation Kind = iota + 1
	// KindUnreachable means the target website could not be fetched by the
	// scrape backend.
	KindUnreachable
	// KindRejected means the server declined the uploaded content.
	KindRejected
	// KindNetwork means the transport failed before a response arrived.
	KindNetwork
	// KindParse means a success response body could not be decoded.
	KindParse
	// KindProtocol means the server responded but not in the expected shape.
	KindProtocol
	// KindNotFound means the requested resource does not exist.
	KindNotFound
	// KindServer means a generic server-side failure.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnreachable:
		return "unreachable"
	case KindRejected:
		return "rejected"
	case KindNetwork:
		return "network"
	case KindParse:
		return "parse"
	case KindProtocol:
		return "protocol"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Retryable reports whether a failure of this kind may succeed on a plain
// retry. Validation, rejection and not-found require a different input;
// protocol and parse failures indicate a contract mismatch a retry will not
// fix.
func (k Kind) Retryable() bool {
	return k == KindNetwork || k == KindServer
}

// Error is the uniform failure shape returned by every client operation.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s error: %s: %v", e.Op, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Op, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf extracts the classification from an error chain, or 0 if the error
// did not originate from this package.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// UserMessage renders an error as a concise human-readable message that
// distinguishes bad input from connectivity problems from server-side
// failures. Raw status codes are never included.
func UserMessage(err error) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	switch apiErr.Kind {
	case KindValidation:
		return fmt.Sprintf("Your input was rejected: %s", apiErr.Message)
	case KindUnreachable:
		return "The website could not be reached. Please check the URL and try again."
	case KindRejected:
		return "The server rejected the upload. Try different files."
	case KindNetwork:
		return "We couldn't reach the server. Please check your connection and try again."
	case KindNotFound:
		return "The requested document was not found."
	case KindParse, KindProtocol:
		return fmt.Sprintf("The server sent an unexpected response: %s", apiErr.Message)
	default:
		return "Something went wrong on our side. Please try again later."
	}
}
