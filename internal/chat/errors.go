package chat

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies why a completion failed.
type ErrorKind int

const (
	ConnectionFailed ErrorKind = iota
	APIError
	ParseError
	EmptyResponse
)

func (k ErrorKind) String() string {
	switch k {
	case ConnectionFailed:
		return "connection failed"
	case APIError:
		return "api error"
	case ParseError:
		return "parse error"
	case EmptyResponse:
		return "empty response"
	default:
		return "unknown"
	}
}

// CompletionError is returned by a completion client for every failure.
// Status and Body are set for APIError only.
type CompletionError struct {
	Kind   ErrorKind
	Status int
	Body   string
	Err    error
}

func (e *CompletionError) Error() string {
	switch e.Kind {
	case ConnectionFailed:
		return fmt.Sprintf("Connection failed: %v", e.Err)
	case APIError:
		return fmt.Sprintf("API error %d %s: %s", e.Status, http.StatusText(e.Status), e.Body)
	case ParseError:
		return fmt.Sprintf("Parse error: %v", e.Err)
	case EmptyResponse:
		return "Empty response"
	default:
		return fmt.Sprintf("completion failed: %v", e.Err)
	}
}

func (e *CompletionError) Unwrap() error { return e.Err }
