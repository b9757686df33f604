package indexnow

import (
	"errors"
	"fmt"
)

// ErrAsyncUnavailable is returned by SubmitAsync when no job queue is
// configured. It is the only error this package hands back to callers
// instead of folding it into a Result.
var ErrAsyncUnavailable = errors.New("indexnow: async submission is not available; configure a job queue with WithQueue or UseQueue before calling SubmitAsync")

// ConfigError indicates invalid configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error [%s]: %s", e.Field, e.Message)
}

// InvalidURLError indicates the host could not be derived from a URL.
type InvalidURLError struct {
	URL string
	Err error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL %s: %v", e.URL, e.Err)
}

func (e *InvalidURLError) Unwrap() error {
	return e.Err
}

// RejectedError indicates IndexNow answered with a status other than 200 or 202.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("IndexNow API returned %d: %s", e.StatusCode, e.Body)
}

// TransportError indicates the request never produced a response.
type TransportError struct {
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request timeout: %v", e.Err)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a TransportError caused by a timeout.
func IsTimeout(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Timeout
}

// IsRejected reports whether err is a RejectedError.
func IsRejected(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}
